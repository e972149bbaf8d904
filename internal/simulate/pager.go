package simulate

import "trackfeed/internal/featureset"

// NextPage returns the next page of observations. A request that begins a
// new cycle (the first page) advances the simulation by exactly one tick;
// every later page of the same cycle observes that same tick's positions.
//
// The returned features are views over live simulation state. Encode or
// copy them before the next cycle's first page is requested.
func (g *Generator) NextPage() (*featureset.PointSet, error) {
	if len(g.tracks) == 0 {
		return nil, ErrNotInitialized
	}

	start := g.page * g.cfg.PageSize
	if start == 0 {
		g.tick()
	}
	end := start + g.cfg.PageSize
	if end > len(g.observations) {
		end = len(g.observations)
	}

	out := &featureset.PointSet{
		GeometryType: featureset.GeometryTypePoint,
		Features:     g.observations[start:end],
	}

	if (g.page+1)*g.cfg.PageSize >= len(g.observations) {
		g.page = 0
	} else {
		g.page++
	}
	return out, nil
}
