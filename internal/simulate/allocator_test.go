package simulate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackfeed/internal/featureset"
)

// lineRoutes builds one feature per vertex count, each a single straight
// path with unit spacing.
func lineRoutes(vertexCounts ...int) *featureset.PolylineSet {
	set := &featureset.PolylineSet{}
	for fi, n := range vertexCounts {
		path := make(featureset.Path, n)
		for v := 0; v < n; v++ {
			path[v] = featureset.Point{X: float64(v), Y: float64(fi * 10)}
		}
		set.Features = append(set.Features, featureset.PolylineFeature{
			Geometry: featureset.Polyline{Paths: []featureset.Path{path}},
		})
	}
	return set
}

func testConfig(cfg Config) Config {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return cfg
}

func trackCountOnFeature(g *Generator, featureIndex int) int {
	n := 0
	for _, tr := range g.tracks {
		if tr.featureIndex == featureIndex {
			n++
		}
	}
	return n
}

func TestAllocateProportional(t *testing.T) {
	g, err := New(lineRoutes(30, 10), testConfig(Config{TrackedAssets: 8}))
	require.NoError(t, err)

	// vertexSum=40: feature 0 gets floor(8*30/40)=6, feature 1 floor(8*10/40)=2.
	assert.Equal(t, 8, g.Len())
	assert.Equal(t, 6, trackCountOnFeature(g, 0))
	assert.Equal(t, 2, trackCountOnFeature(g, 1))
}

func TestAllocateMinimumOnePerFeature(t *testing.T) {
	g, err := New(lineRoutes(100, 2), testConfig(Config{TrackedAssets: 10}))
	require.NoError(t, err)

	// Feature 1's proportional share floors to 0 and is raised to 1.
	assert.Equal(t, 10, g.Len())
	assert.Equal(t, 9, trackCountOnFeature(g, 0))
	assert.Equal(t, 1, trackCountOnFeature(g, 1))
}

func TestAllocateSpacesTracksAlongFeature(t *testing.T) {
	g, err := New(lineRoutes(30), testConfig(Config{TrackedAssets: 6}))
	require.NoError(t, err)
	require.Equal(t, 6, g.Len())

	// spacing = floor(0.8*30/6) = 4, so segment starts land at 0,4,8,...
	for i, tr := range g.tracks {
		assert.Equal(t, i*4, tr.vertexIndex, "track %d", i)
	}
}

func TestAllocateStopsWhenFeatureExhausted(t *testing.T) {
	routes := &featureset.PolylineSet{Features: []featureset.PolylineFeature{{
		Geometry: featureset.Polyline{Paths: []featureset.Path{
			{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
			{{X: 5, Y: 5}}, // unusable, ends the walk
		}},
	}}}

	g, err := New(routes, testConfig(Config{TrackedAssets: 3}))
	require.NoError(t, err)

	// spacing=1: placements at vertex 0 and 1, then the walk hits the
	// single-vertex path and gives up. Reduced population, no error.
	assert.Equal(t, 2, g.Len())
}

func TestAllocateRejectsUnusableNetwork(t *testing.T) {
	t.Run("no features", func(t *testing.T) {
		_, err := New(&featureset.PolylineSet{}, testConfig(Config{}))
		assert.Error(t, err)
	})

	t.Run("feature without paths", func(t *testing.T) {
		routes := &featureset.PolylineSet{Features: []featureset.PolylineFeature{{}}}
		_, err := New(routes, testConfig(Config{}))
		assert.Error(t, err)
	})

	t.Run("only degenerate paths", func(t *testing.T) {
		routes := &featureset.PolylineSet{Features: []featureset.PolylineFeature{{
			Geometry: featureset.Polyline{Paths: []featureset.Path{{{X: 1, Y: 1}}}},
		}}}
		_, err := New(routes, testConfig(Config{}))
		assert.ErrorIs(t, err, ErrNoUsableSegments)
	})
}

func TestAllocateObservationAlignment(t *testing.T) {
	g, err := New(lineRoutes(30, 10), testConfig(Config{TrackedAssets: 8, PageSize: 3}))
	require.NoError(t, err)

	checkAlignment := func() {
		require.Len(t, g.observations, len(g.tracks))
		for i, obs := range g.observations {
			assert.Equal(t, i, obs.Attributes[featureset.AttrTrackID], "observation %d", i)
			assert.Contains(t, obs.Attributes, featureset.AttrObjectID)
			assert.Contains(t, obs.Attributes, featureset.AttrHeading)
			assert.Contains(t, obs.Attributes, featureset.AttrType)
			assert.Contains(t, obs.Attributes, featureset.AttrActive)
		}
	}

	checkAlignment()
	for i := 0; i < 9; i++ { // a few full cycles
		_, err := g.NextPage()
		require.NoError(t, err)
	}
	checkAlignment()
}

func TestAllocateAttributeRanges(t *testing.T) {
	g, err := New(lineRoutes(200), testConfig(Config{TrackedAssets: 50}))
	require.NoError(t, err)

	for i, obs := range g.observations {
		typ, ok := obs.Attributes[featureset.AttrType].(int)
		require.True(t, ok, "observation %d TYPE", i)
		assert.GreaterOrEqual(t, typ, 0)
		assert.Less(t, typ, 6)

		active, ok := obs.Attributes[featureset.AttrActive].(int)
		require.True(t, ok, "observation %d ACTIVE", i)
		assert.Contains(t, []int{0, 1}, active)
	}
}

func TestResetRebuildsPopulation(t *testing.T) {
	g, err := New(lineRoutes(30), testConfig(Config{TrackedAssets: 5, PageSize: 5}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := g.NextPage()
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, g.Ticks())

	require.NoError(t, g.Reset())

	assert.Equal(t, 5, g.Len())
	assert.EqualValues(t, 0, g.Ticks())
	// Identifier sequence restarts from 1.
	assert.Equal(t, uint32(1), g.observations[0].Attributes[featureset.AttrObjectID])
}
