// Package featureset models the geometry and attribute data exchanged by the
// track feed: polyline route networks on the way in, point observations on
// the way out. Both sides share the feature/attribute shape and differ only
// in the geometry payload.
package featureset

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Attribute names carried by every observation.
const (
	AttrObjectID = "OBJECTID"
	AttrTrackID  = "TRACKID"
	AttrHeading  = "HEADING"
	AttrType     = "TYPE"
	AttrActive   = "ACTIVE"
)

// GeometryTypePoint tags a PointSet so consumers can dispatch on payload
// shape without inspecting the features.
const GeometryTypePoint = "point"

// Attributes maps attribute names to string or numeric values.
type Attributes map[string]any

// Point is a single 2D vertex. On the wire it is a two-element [x, y] array.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Path is an ordered run of vertices. A path needs at least two vertices to
// contribute a segment.
type Path []Point

// Usable reports whether the path holds at least one segment.
func (p Path) Usable() bool { return len(p) >= 2 }

// Polyline is an ordered sequence of paths.
type Polyline struct {
	Paths []Path `json:"paths"`
}

// VertexCount returns the total vertex count across all paths.
func (pl Polyline) VertexCount() int {
	n := 0
	for _, p := range pl.Paths {
		n += len(p)
	}
	return n
}

// PolylineFeature is one route of the input network.
type PolylineFeature struct {
	Attributes Attributes `json:"attributes,omitempty"`
	Geometry   Polyline   `json:"geometry"`
}

// PolylineSet is the route network supplied once at initialization and
// treated as read-only afterwards.
type PolylineSet struct {
	Features []PolylineFeature `json:"features"`
}

// PointFeature is one observation: the reported state of a single track.
type PointFeature struct {
	Attributes Attributes `json:"attributes"`
	Geometry   Point      `json:"geometry"`
}

// PointSet is one page of observations.
type PointSet struct {
	GeometryType string          `json:"geometryType"`
	Features     []*PointFeature `json:"features"`
}

// Validate rejects route networks the simulation cannot start on: an empty
// set or a feature with zero paths. Paths with fewer than two vertices are
// tolerated here; track allocation skips past them.
func Validate(routes *PolylineSet) error {
	if routes == nil || len(routes.Features) == 0 {
		return fmt.Errorf("featureset: route network has no features")
	}
	for i, f := range routes.Features {
		if len(f.Geometry.Paths) == 0 {
			return fmt.Errorf("featureset: feature %d has no paths", i)
		}
	}
	return nil
}
