// Package simulate generates a synthetic live-tracking feed: a fixed
// population of tracks moves along an immutable polyline route network, and
// consumers read the current positions page by page. Requesting the first
// page of a cycle advances every track by one tick.
//
// A Generator owns all mutable simulation state and assumes one logical
// caller: it performs no internal locking, never blocks, and must be
// serialized externally when shared (the HTTP harness does this with a
// mutex).
package simulate

import (
	"errors"
	"math/rand"
	"time"

	"trackfeed/internal/featureset"
	"trackfeed/internal/logging"
)

// Defaults applied by Config.withDefaults for non-positive values.
const (
	DefaultTrackedAssets  = 10000
	DefaultPageSize       = 10000
	DefaultDistStep       = 0.02
	DefaultActiveInterval = 400
)

const (
	trackTypes        = 6    // TYPE is uniform over [0, trackTypes)
	activeProbability = 0.05 // chance a track reports ACTIVE=1 on each roll
)

// ErrNotInitialized is returned when pages are requested from a Generator
// that was not built through New.
var ErrNotInitialized = errors.New("simulate: generator not initialized")

// ErrNoUsableSegments is returned when the route network holds no path with
// at least two vertices, so not a single track can be placed.
var ErrNoUsableSegments = errors.New("simulate: route network has no usable segments")

// Source supplies the randomness for stochastic observation attributes.
// *math/rand.Rand satisfies it; tests inject seeded sources.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Config tunes a Generator. The zero value is usable: every field falls back
// to its default.
type Config struct {
	// TrackedAssets is the target track count distributed across the route
	// network.
	TrackedAssets int
	// PageSize is the number of observations returned per NextPage call.
	PageSize int
	// DistStep is the fraction of the current segment's length a track
	// advances per tick.
	DistStep float64
	// ActiveInterval is the tick period at which ACTIVE flags are re-rolled.
	ActiveInterval int
	// Rand supplies attribute randomness; defaults to a time-seeded source.
	Rand Source
	// Logger receives allocation diagnostics; defaults to a no-op logger.
	Logger logging.Logger
}

func (c Config) withDefaults() Config {
	if c.TrackedAssets <= 0 {
		c.TrackedAssets = DefaultTrackedAssets
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DistStep <= 0 {
		c.DistStep = DefaultDistStep
	}
	if c.ActiveInterval <= 0 {
		c.ActiveInterval = DefaultActiveInterval
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Logger == nil {
		c.Logger = logging.Noop()
	}
	return c
}

// trackRecord is the simulation state of a single track. Records are
// index-aligned with the Generator's observations: tracks[i] governs exactly
// observations[i] for the Generator's whole lifetime.
type trackRecord struct {
	featureIndex  int     // route feature the track lives on, fixed
	pathIndex     int     // current path within the feature
	vertexIndex   int     // start vertex of the current segment
	segmentLength float64 // Euclidean length of the current segment
	accumulated   float64 // distance travelled along the current segment
	speed         float64 // distance per tick, segmentLength*DistStep
}

// Generator owns the track population and serves it in pages.
type Generator struct {
	cfg    Config
	routes *featureset.PolylineSet

	tracks       []trackRecord
	observations []*featureset.PointFeature

	ids             objectIDs
	page            int
	ticks           uint64
	sinceActiveRoll int
}

// New validates the route network and allocates the track population. The
// network must not be modified afterwards.
func New(routes *featureset.PolylineSet, cfg Config) (*Generator, error) {
	if err := featureset.Validate(routes); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg.withDefaults(), routes: routes}
	if err := g.allocate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset discards all simulation state and rebuilds the track population from
// the original route network.
func (g *Generator) Reset() error {
	if g.routes == nil {
		return ErrNotInitialized
	}
	g.tracks = nil
	g.observations = nil
	g.ids = objectIDs{}
	g.page = 0
	g.ticks = 0
	g.sinceActiveRoll = 0
	return g.allocate()
}

// Len returns the number of live tracks. This can be below the configured
// target when the route network was exhausted during allocation.
func (g *Generator) Len() int { return len(g.tracks) }

// Ticks returns the number of simulation ticks performed so far.
func (g *Generator) Ticks() uint64 { return g.ticks }

// PageSize returns the effective page size.
func (g *Generator) PageSize() int { return g.cfg.PageSize }

// Speeds returns a copy of every track's current per-tick speed.
func (g *Generator) Speeds() []float64 {
	out := make([]float64, len(g.tracks))
	for i := range g.tracks {
		out[i] = g.tracks[i].speed
	}
	return out
}

// ActiveCount returns how many tracks currently report ACTIVE=1.
func (g *Generator) ActiveCount() int {
	n := 0
	for _, obs := range g.observations {
		if v, ok := obs.Attributes[featureset.AttrActive].(int); ok && v == 1 {
			n++
		}
	}
	return n
}

func activeFlag(r Source) int {
	if r.Float64() < activeProbability {
		return 1
	}
	return 0
}
