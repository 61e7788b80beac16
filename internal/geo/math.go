package geo

import (
	"fmt"
	"math"
	"strings"
)

// AreaEpsilon is the smallest absolute signed area, in square degrees,
// that still counts as an enclosed surface.
const AreaEpsilon = 1e-12

// IsClosed reports whether the ring ends on its first point.
func IsClosed(r Ring) bool {
	return len(r) > 0 && r[0] == r[len(r)-1]
}

// Close returns the ring with its first point appended when it is open.
// The input is never modified.
func Close(r Ring) Ring {
	out := append(Ring(nil), r...)
	if len(r) == 0 || IsClosed(r) {
		return out
	}
	return append(out, r[0])
}

// HasConsecutiveDuplicates reports whether any point immediately repeats.
func HasConsecutiveDuplicates(r Ring) bool {
	for i := 1; i < len(r); i++ {
		if r[i] == r[i-1] {
			return true
		}
	}
	return false
}

// DedupeConsecutive drops immediately repeated points, preserving order.
func DedupeConsecutive(r Ring) Ring {
	out := make(Ring, 0, len(r))
	for i, p := range r {
		if i > 0 && p == r[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DistinctCount returns the number of distinct points in the ring.
func DistinctCount(r Ring) int {
	seen := make(map[Point]struct{}, len(r))
	for _, p := range r {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// SignedArea computes the shoelace area with lon as x and lat as y.
// The ring is treated as implicitly closed, so closing it does not change
// the result. Positive means counter-clockwise.
func SignedArea(r Ring) float64 {
	if len(r) < 3 {
		return 0
	}

	var sum float64
	for i := range r {
		a := r[i]
		b := r[(i+1)%len(r)]
		sum += a.Lon*b.Lat - b.Lon*a.Lat
	}

	return sum / 2
}

// IsDegenerate reports whether the ring has fewer than 3 distinct points
// or encloses no area.
func IsDegenerate(r Ring) bool {
	return DistinctCount(r) < 3 || math.Abs(SignedArea(r)) <= AreaEpsilon
}

// Orientation is the winding direction of a ring.
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "collinear"
	}
}

// OrientationOf returns the winding direction of the ring.
func OrientationOf(r Ring) Orientation {
	area := SignedArea(r)
	switch {
	case area > AreaEpsilon:
		return CounterClockwise
	case area < -AreaEpsilon:
		return Clockwise
	default:
		return Collinear
	}
}

// Reverse returns the ring in the opposite order.
func Reverse(r Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Winding is a writer policy for ring orientation.
type Winding int

const (
	// WindingPreserve keeps rings as they were read.
	WindingPreserve Winding = iota
	// WindingClockwise is the orientation VATSpy data uses for outer rings.
	WindingClockwise
	// WindingCounterClockwise is the RFC 7946 right-hand rule.
	WindingCounterClockwise
)

// String implements fmt.Stringer.
func (w Winding) String() string {
	switch w {
	case WindingClockwise:
		return "cw"
	case WindingCounterClockwise:
		return "ccw"
	default:
		return "preserve"
	}
}

// ParseWinding accepts preserve, cw or ccw (case-insensitive; empty is preserve).
func ParseWinding(s string) (Winding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return WindingPreserve, nil
	case "cw", "clockwise":
		return WindingClockwise, nil
	case "ccw", "counter-clockwise", "counterclockwise":
		return WindingCounterClockwise, nil
	default:
		return WindingPreserve, fmt.Errorf("invalid winding %q (want preserve|cw|ccw)", s)
	}
}

// UnmarshalText lets Winding be read from YAML and flags.
func (w *Winding) UnmarshalText(b []byte) error {
	v, err := ParseWinding(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (w Winding) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Wind returns the ring oriented per policy. Collinear rings are left alone.
func Wind(r Ring, w Winding) Ring {
	o := OrientationOf(r)
	switch {
	case w == WindingClockwise && o == CounterClockwise,
		w == WindingCounterClockwise && o == Clockwise:
		return Reverse(r)
	default:
		return r
	}
}

// BBox is a lat/lon bounding box.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Bounds returns the bounding box of the ring. A box wider than 180 degrees
// of longitude is taken to cross the antimeridian, in which case MinLon is
// the western edge and ends up greater than MaxLon.
func Bounds(r Ring) BBox {
	if len(r) == 0 {
		return BBox{}
	}

	b := BBox{MinLat: r[0].Lat, MaxLat: r[0].Lat, MinLon: r[0].Lon, MaxLon: r[0].Lon}
	for _, p := range r[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}

	if b.MaxLon-b.MinLon <= MaxLon {
		return b
	}

	// West edge is the smallest eastern longitude, east edge the largest
	// western one.
	b.MinLon, b.MaxLon = MaxLon, -MaxLon
	for _, p := range r {
		if p.Lon >= 0 {
			b.MinLon = math.Min(b.MinLon, p.Lon)
		} else {
			b.MaxLon = math.Max(b.MaxLon, p.Lon)
		}
	}

	return b
}

// CrossesAntimeridian reports whether the box wraps past +/-180.
func (b BBox) CrossesAntimeridian() bool {
	return b.MinLon > b.MaxLon
}

// Center returns the middle of the box, wrapping across the antimeridian.
func (b BBox) Center() Point {
	lat := (b.MinLat + b.MaxLat) / 2
	if !b.CrossesAntimeridian() {
		return Point{Lat: lat, Lon: (b.MinLon + b.MaxLon) / 2}
	}

	lon := (b.MinLon + b.MaxLon + 2*MaxLon) / 2
	if lon > MaxLon {
		lon -= 2 * MaxLon
	}

	return Point{Lat: lat, Lon: lon}
}
