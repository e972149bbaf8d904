package simulate

import (
	"math"

	"trackfeed/internal/featureset"
)

// tick advances every track by one step and refreshes its observation in
// place. Every ActiveInterval-th tick additionally re-rolls all ACTIVE
// flags.
func (g *Generator) tick() {
	for i := range g.tracks {
		g.advance(&g.tracks[i], g.observations[i])
	}
	g.ticks++

	g.sinceActiveRoll++
	if g.sinceActiveRoll >= g.cfg.ActiveInterval {
		for _, obs := range g.observations {
			obs.Attributes[featureset.AttrActive] = activeFlag(g.cfg.Rand)
		}
		g.sinceActiveRoll = 0
	}
}

// advance moves one track along its current segment. The reported position
// and heading always come from the segment the track was on when the tick
// started; the segment hand-off happens afterwards, one tick before the
// track would overshoot.
func (g *Generator) advance(tr *trackRecord, obs *featureset.PointFeature) {
	paths := g.routes.Features[tr.featureIndex].Geometry.Paths
	path := paths[tr.pathIndex]
	a, b := path[tr.vertexIndex], path[tr.vertexIndex+1]

	next := tr.accumulated + tr.speed
	ratio := 0.0
	if tr.segmentLength > 0 {
		ratio = next / tr.segmentLength
	}
	obs.Geometry = featureset.Point{
		X: a.X + ratio*(b.X-a.X),
		Y: a.Y + ratio*(b.Y-a.Y),
	}
	obs.Attributes[featureset.AttrObjectID] = g.ids.Next()
	obs.Attributes[featureset.AttrHeading] = heading(a, b)
	tr.accumulated = next

	// Hand off once the next tick would overshoot the segment. A track that
	// lands exactly on the endpoint still reports it before moving on. The
	// zero-length case covers segments between duplicate vertices, which
	// would otherwise never complete.
	if next+tr.speed > tr.segmentLength || tr.segmentLength == 0 {
		tr.vertexIndex++
		if tr.vertexIndex >= len(path)-1 {
			// End of path: continue on the next usable path, wrapping to the
			// start of the feature after the last one.
			tr.pathIndex = nextUsablePath(paths, tr.pathIndex)
			tr.vertexIndex = 0
		}
		seg := paths[tr.pathIndex]
		a, b = seg[tr.vertexIndex], seg[tr.vertexIndex+1]
		tr.segmentLength = distance(a, b)
		tr.speed = tr.segmentLength * g.cfg.DistStep
		tr.accumulated = 0
	}
}

// nextUsablePath returns the index of the next path with at least one
// segment, cycling through the feature. Allocation only ever places tracks
// on usable paths, so the scan terminates at the current path at the latest.
func nextUsablePath(paths []featureset.Path, current int) int {
	i := current
	for {
		i++
		if i >= len(paths) {
			i = 0
		}
		if paths[i].Usable() {
			return i
		}
	}
}

// distance is the Euclidean length of the segment from a to b.
func distance(a, b featureset.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// heading is the direction of travel from a to b in signed degrees,
// measured clockwise from north.
func heading(a, b featureset.Point) float64 {
	return math.Atan2(b.X-a.X, b.Y-a.Y) * 180 / math.Pi
}
