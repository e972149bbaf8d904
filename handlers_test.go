package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeSpeeds(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, speedSummary{}, summarizeSpeeds(nil))
	})

	t.Run("single value has zero spread", func(t *testing.T) {
		got := summarizeSpeeds([]float64{0.5})
		assert.InDelta(t, 0.5, got.Mean, 1e-12)
		assert.Zero(t, got.StdDev)
		assert.InDelta(t, 0.5, got.Min, 1e-12)
		assert.InDelta(t, 0.5, got.Max, 1e-12)
	})

	t.Run("distribution", func(t *testing.T) {
		got := summarizeSpeeds([]float64{1, 2, 3, 4})
		assert.InDelta(t, 2.5, got.Mean, 1e-12)
		assert.InDelta(t, 1.2909944487358056, got.StdDev, 1e-9)
		assert.InDelta(t, 1, got.Min, 1e-12)
		assert.InDelta(t, 4, got.Max, 1e-12)
	})
}

func TestLoadRoutesFixture(t *testing.T) {
	routes, err := loadRoutes("testdata/routes.json")
	assert.NoError(t, err)
	assert.Len(t, routes.Features, 3)
	assert.Equal(t, 5, routes.Features[0].Geometry.VertexCount())
}

func TestLoadRoutesMissingFile(t *testing.T) {
	_, err := loadRoutes("testdata/does-not-exist.json")
	assert.Error(t, err)
}
