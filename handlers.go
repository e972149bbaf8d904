package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/Sudo-Ivan/jacked-api/jacked"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"trackfeed/internal/logging"
	"trackfeed/internal/observability"
	"trackfeed/internal/simulate"
)

// feedServer serves the generator over HTTP. The generator assumes a single
// logical caller, so every access goes through mu.
type feedServer struct {
	mu      sync.Mutex
	gen     *simulate.Generator
	log     logging.Logger
	metrics *observability.FeedCollector
}

func (s *feedServer) handlePositions(c *jacked.Context) error {
	ctx, log := logging.WithRequestLogger(c.Request.Context(), s.log)
	start := time.Now()

	s.mu.Lock()
	before := s.gen.Ticks()
	page, err := s.gen.NextPage()
	ticked := s.gen.Ticks() > before
	if err != nil {
		s.mu.Unlock()
		log.Error(ctx, "paging failed", logging.Err(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "paging failed"})
	}
	if ticked {
		s.metrics.SetTrackCounts(s.gen.Len(), s.gen.ActiveCount())
	}
	// Encode while holding the lock: the page aliases live simulation state
	// that the next tick overwrites.
	err = c.JSON(http.StatusOK, page)
	s.mu.Unlock()

	s.metrics.ObservePage(time.Since(start), ticked)
	log.Debug(ctx, "page served",
		logging.Int("features", len(page.Features)),
		logging.Uint64("tick", before))
	return err
}

func (s *feedServer) handleStats(c *jacked.Context) error {
	s.mu.Lock()
	resp := statsResponse{
		Tracks:       s.gen.Len(),
		ActiveTracks: s.gen.ActiveCount(),
		Ticks:        s.gen.Ticks(),
		PageSize:     s.gen.PageSize(),
		Speed:        summarizeSpeeds(s.gen.Speeds()),
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

func (s *feedServer) handleHealth(c *jacked.Context) error {
	s.mu.Lock()
	tracks := s.gen.Len()
	s.mu.Unlock()

	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Tracks: tracks})
}

// summarizeSpeeds reduces the per-track speeds to a distribution summary.
func summarizeSpeeds(speeds []float64) speedSummary {
	if len(speeds) == 0 {
		return speedSummary{}
	}
	out := speedSummary{
		Mean: stat.Mean(speeds, nil),
		Min:  floats.Min(speeds),
		Max:  floats.Max(speeds),
	}
	if len(speeds) > 1 {
		out.StdDev = stat.StdDev(speeds, nil)
	}
	return out
}
