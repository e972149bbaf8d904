package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudo-Ivan/jacked-api/jacked"
	json "github.com/goccy/go-json"

	"trackfeed/internal/featureset"
	"trackfeed/internal/logging"
	"trackfeed/internal/observability"
	"trackfeed/internal/simulate"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		routesPath = flag.String("routes", "testdata/routes.json", "polyline route network file (JSON)")
		assets     = flag.Int("assets", simulate.DefaultTrackedAssets, "target tracked asset count")
		pageSize   = flag.Int("page-size", simulate.DefaultPageSize, "observations returned per page")
		distStep   = flag.Float64("dist-step", simulate.DefaultDistStep, "per-tick step as a fraction of segment length")
		seed       = flag.Int64("seed", 0, "random seed for track attributes, 0 for time-based")
	)
	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	routes, err := loadRoutes(*routesPath)
	if err != nil {
		log.Error(ctx, "loading route network failed", logging.Err(err))
		os.Exit(1)
	}

	var src simulate.Source
	if *seed != 0 {
		src = rand.New(rand.NewSource(*seed))
	}

	gen, err := simulate.New(routes, simulate.Config{
		TrackedAssets: *assets,
		PageSize:      *pageSize,
		DistStep:      *distStep,
		Rand:          src,
		Logger:        log,
	})
	if err != nil {
		log.Error(ctx, "initializing track generator failed", logging.Err(err))
		os.Exit(1)
	}

	metrics, err := observability.NewFeedCollector(nil)
	if err != nil {
		log.Error(ctx, "registering metrics failed", logging.Err(err))
		os.Exit(1)
	}
	metrics.SetTrackCounts(gen.Len(), gen.ActiveCount())

	feed := &feedServer{gen: gen, log: log, metrics: metrics}

	cfg := jacked.DefaultConfig()
	cfg.WriteTimeout = 30 * time.Second
	cfg.IdleTimeout = 5 * time.Minute

	app := jacked.NewWithConfig(cfg)
	app.GET("/api/positions", feed.handlePositions)
	app.GET("/api/stats", feed.handleStats)
	app.GET("/api/health", feed.handleHealth)
	app.GET("/metrics", func(c *jacked.Context) error {
		metrics.Handler().ServeHTTP(c.Response, c.Request)
		return nil
	})

	log.Info(ctx, "track feed listening",
		logging.String("addr", *addr),
		logging.Int("tracks", gen.Len()),
		logging.Int("page_size", gen.PageSize()))

	go func() {
		if err := app.ListenAndServe(*addr); err != nil {
			log.Error(ctx, "server stopped", logging.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down")
}

func loadRoutes(path string) (*featureset.PolylineSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var routes featureset.PolylineSet
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &routes, nil
}
