package simulate

import (
	"context"

	"trackfeed/internal/featureset"
	"trackfeed/internal/logging"
)

// allocate builds the track population in one pass over the route network.
// Tracks are distributed across features proportionally to each feature's
// vertex count (never fewer than one per feature) and spread along the
// feature so they don't bunch at its start. When the network runs out of
// usable segments before the target is reached, the generator keeps the
// reduced population and reports it as a diagnostic.
func (g *Generator) allocate() error {
	target := g.cfg.TrackedAssets

	vertexSum := 0
	for _, f := range g.routes.Features {
		vertexSum += f.Geometry.VertexCount()
	}
	if vertexSum == 0 {
		return ErrNoUsableSegments
	}

	g.tracks = make([]trackRecord, 0, target)
	g.observations = make([]*featureset.PointFeature, 0, target)

features:
	for fi := range g.routes.Features {
		paths := g.routes.Features[fi].Geometry.Paths
		featureVertices := g.routes.Features[fi].Geometry.VertexCount()

		share := target * featureVertices / vertexSum
		if share < 1 {
			share = 1
		}
		spacing := int(0.8 * float64(featureVertices) / float64(share))

		pathIndex, vertexIndex := 0, 0
		for placed := 0; placed < share; placed++ {
			if pathIndex >= len(paths) || !paths[pathIndex].Usable() {
				break // feature exhausted
			}
			g.place(fi, pathIndex, vertexIndex)
			if len(g.tracks) >= target {
				break features
			}

			vertexIndex += spacing
			if vertexIndex >= len(paths[pathIndex])-1 {
				pathIndex++
				vertexIndex = 0
			}
		}
	}

	if len(g.tracks) == 0 {
		return ErrNoUsableSegments
	}
	if len(g.tracks) < target {
		g.cfg.Logger.Warn(context.Background(), "route network exhausted before reaching track target",
			logging.Int("placed", len(g.tracks)),
			logging.Int("requested", target))
	}
	return nil
}

// place appends one track at the given segment start, with its paired
// observation. Track IDs are dense: the next ID is the current population
// size.
func (g *Generator) place(featureIndex, pathIndex, vertexIndex int) {
	path := g.routes.Features[featureIndex].Geometry.Paths[pathIndex]
	a, b := path[vertexIndex], path[vertexIndex+1]
	length := distance(a, b)

	trackID := len(g.tracks)
	g.tracks = append(g.tracks, trackRecord{
		featureIndex:  featureIndex,
		pathIndex:     pathIndex,
		vertexIndex:   vertexIndex,
		segmentLength: length,
		speed:         length * g.cfg.DistStep,
	})
	g.observations = append(g.observations, &featureset.PointFeature{
		Attributes: featureset.Attributes{
			featureset.AttrObjectID: g.ids.Next(),
			featureset.AttrTrackID:  trackID,
			featureset.AttrHeading:  heading(a, b),
			featureset.AttrType:     g.cfg.Rand.Intn(trackTypes),
			featureset.AttrActive:   activeFlag(g.cfg.Rand),
		},
		Geometry: a,
	})
}
