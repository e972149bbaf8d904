// Package observability bundles the Prometheus metrics exposed by the feed
// server.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeedCollector holds the feed surface's Prometheus metrics and provides a
// ready-to-use /metrics handler.
type FeedCollector struct {
	gatherer prometheus.Gatherer

	PagesServed  prometheus.Counter
	TicksTotal   prometheus.Counter
	PageDuration prometheus.Histogram

	Tracks       prometheus.Gauge
	ActiveTracks prometheus.Gauge
}

// NewFeedCollector registers the feed metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewFeedCollector(reg prometheus.Registerer) (*FeedCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	pages, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_pages_served_total",
		Help: "Total number of observation pages served.",
	}), "feed_pages_served_total")
	if err != nil {
		return nil, err
	}
	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_ticks_total",
		Help: "Total number of simulation ticks performed.",
	}), "feed_ticks_total")
	if err != nil {
		return nil, err
	}
	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_page_duration_seconds",
		Help:    "Latency of serving one observation page, in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "feed_page_duration_seconds")
	if err != nil {
		return nil, err
	}
	tracks, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_tracks",
		Help: "Current number of simulated tracks.",
	}), "feed_tracks")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_tracks_active",
		Help: "Current number of tracks reporting ACTIVE=1.",
	}), "feed_tracks_active")
	if err != nil {
		return nil, err
	}

	return &FeedCollector{
		gatherer:     gatherer,
		PagesServed:  pages,
		TicksTotal:   ticks,
		PageDuration: duration,
		Tracks:       tracks,
		ActiveTracks: active,
	}, nil
}

// ObservePage records one served page: latency, the page counter, and the
// tick counter when the request advanced the simulation.
func (c *FeedCollector) ObservePage(d time.Duration, ticked bool) {
	if c == nil {
		return
	}
	c.PagesServed.Inc()
	c.PageDuration.Observe(d.Seconds())
	if ticked {
		c.TicksTotal.Inc()
	}
}

// SetTrackCounts updates the population gauges.
func (c *FeedCollector) SetTrackCounts(total, active int) {
	if c == nil {
		return
	}
	c.Tracks.Set(float64(total))
	c.ActiveTracks.Set(float64(active))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FeedCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, histogram prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(histogram); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return histogram, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
