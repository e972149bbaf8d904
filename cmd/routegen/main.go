// Command routegen emits a synthetic polyline route network for the track
// feed server. Each feature is a random walk broken into paths, so the
// resulting network exercises segment, path, and loop transitions.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"trackfeed/internal/featureset"
)

func main() {
	var (
		features = flag.Int("features", 20, "number of route features")
		paths    = flag.Int("paths", 2, "paths per feature")
		vertices = flag.Int("vertices", 50, "vertices per path")
		spread   = flag.Float64("spread", 100, "extent of the network around the origin")
		seed     = flag.Int64("seed", 0, "random seed, 0 for time-based")
		out      = flag.String("out", "routes.json", "output file")
	)
	flag.Parse()

	seedVal := *seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))

	set := generate(rng, *features, *paths, *vertices, *spread)

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		log.Fatalf("encoding route network: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}

	log.Printf("wrote %d features (%d paths, %d vertices each) to %s (seed %d)",
		*features, *paths, *vertices, *out, seedVal)
}

// generate builds the network: every feature starts at a random origin and
// wanders with unit-length segments and a bounded turn per step.
func generate(rng *rand.Rand, features, paths, vertices int, spread float64) *featureset.PolylineSet {
	set := &featureset.PolylineSet{Features: make([]featureset.PolylineFeature, 0, features)}

	for i := 0; i < features; i++ {
		cur := featureset.Point{
			X: (rng.Float64()*2 - 1) * spread,
			Y: (rng.Float64()*2 - 1) * spread,
		}
		dir := rng.Float64() * 2 * math.Pi

		pl := featureset.Polyline{Paths: make([]featureset.Path, 0, paths)}
		for j := 0; j < paths; j++ {
			path := make(featureset.Path, 0, vertices)
			path = append(path, cur)
			for k := 1; k < vertices; k++ {
				dir += (rng.Float64() - 0.5) * math.Pi / 4
				cur = featureset.Point{X: cur.X + math.Cos(dir), Y: cur.Y + math.Sin(dir)}
				path = append(path, cur)
			}
			pl.Paths = append(pl.Paths, path)
		}

		set.Features = append(set.Features, featureset.PolylineFeature{
			Attributes: featureset.Attributes{"ROUTEID": i},
			Geometry:   pl,
		})
	}
	return set
}
