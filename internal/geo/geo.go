// Package geo holds the boundary model shared by every codec and the
// geometry primitives the validator and repairer are built from.
package geo

import "strconv"

// Latitude and longitude limits in decimal degrees.
const (
	MaxLat = 90.0
	MaxLon = 180.0
)

// DefaultPrecision is the number of decimals written for each coordinate.
const DefaultPrecision = 6

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the point lies inside the lat/lon ranges.
func (p Point) Valid() bool {
	return p.Lat >= -MaxLat && p.Lat <= MaxLat && p.Lon >= -MaxLon && p.Lon <= MaxLon
}

// Ring is one loop of points. A closed ring repeats its first point at the end.
type Ring []Point

// Boundary is the geometry of one FIR.
type Boundary struct {
	// Label is the preferred label position; nil means bbox centre.
	Label   *Point
	ID      string
	Rings   []Ring
	Oceanic bool
}

// LabelPoint returns the explicit label or the centre of the bounding box.
func (b *Boundary) LabelPoint() Point {
	if b.Label != nil {
		return *b.Label
	}

	var all Ring
	for _, r := range b.Rings {
		all = append(all, r...)
	}

	return Bounds(all).Center()
}

// Document is the ordered set of boundaries handled in one run.
type Document struct {
	Boundaries []Boundary
}

// IDs returns the boundary identifiers in document order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Boundaries))
	for i := range d.Boundaries {
		ids[i] = d.Boundaries[i].ID
	}
	return ids
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Boundaries: make([]Boundary, len(d.Boundaries))}
	for i, b := range d.Boundaries {
		nb := Boundary{ID: b.ID, Oceanic: b.Oceanic}
		if b.Label != nil {
			label := *b.Label
			nb.Label = &label
		}
		nb.Rings = make([]Ring, len(b.Rings))
		for j, r := range b.Rings {
			nb.Rings[j] = append(Ring(nil), r...)
		}
		out.Boundaries[i] = nb
	}
	return out
}

// FormatCoord renders v with a fixed number of decimals. Negative zero is
// written without its sign so that re-parsed output stays byte-identical.
func FormatCoord(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}

	s := strconv.FormatFloat(v, 'f', precision, 64)
	if len(s) > 0 && s[0] == '-' {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return s[1:]
		}
	}

	return s
}
