// Package geojson maps FIR boundaries to and from GeoJSON FeatureCollections
// of Polygon and MultiPolygon features.
package geojson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/firconv/internal/geo"
)

// Property names besides the identifier.
const (
	DefaultIdentifierProperty = "ICAO"
	PropOceanic               = "IsOceanic"
	PropLabel                 = "Label"
	PropExtension             = "IsExtension"
)

// Keys written by the VATSpy GeoJSON exporter, where "ICAO" holds a numeric
// index and the label key is misspelt.
const (
	legacyIdentifierProperty = "Icao"
	legacyLabelProperty      = "Lable"
)

// Geometry and object type names.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePolygon           = "Polygon"
	TypeMultiPolygon      = "MultiPolygon"
)

// FeatureError reports a feature that could not be mapped to a boundary.
type FeatureError struct {
	Err   error
	ID    string
	Index int // 0-based position in the collection
}

func (e *FeatureError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("feature %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("feature %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *FeatureError) Unwrap() error { return e.Err }

// Options controls reading and writing.
type Options struct {
	// OnSkip, when set, drops features that fail to map instead of
	// failing the whole document.
	OnSkip func(*FeatureError)

	// IdentifierProperty names the property carrying the FIR identifier.
	IdentifierProperty string

	// Name is written as the collection "name" member.
	Name string

	// Indent pretty-prints output when non-empty.
	Indent string

	// Precision is the number of decimals per coordinate; <= 0 means geo.DefaultPrecision.
	Precision int

	// Winding reorients rings on write; ccw gives RFC 7946 output.
	Winding geo.Winding

	// NoCRS omits the legacy "crs" member.
	NoCRS bool
}

func (o Options) idProp() string {
	if o.IdentifierProperty == "" {
		return DefaultIdentifierProperty
	}
	return o.IdentifierProperty
}

// Unmarshal parses a FeatureCollection, or a single Feature, into a document.
func Unmarshal(data []byte, opts Options) (*geo.Document, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", geo.ErrMalformedDocument, err)
	}

	var features []geo.GeoJSONFeature
	switch probe.Type {
	case TypeFeatureCollection:
		var fc geo.GeoJSONFeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%w: %v", geo.ErrMalformedDocument, err)
		}
		features = fc.Features
	case TypeFeature:
		var f geo.GeoJSONFeature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", geo.ErrMalformedDocument, err)
		}
		features = []geo.GeoJSONFeature{f}
	default:
		return nil, fmt.Errorf("%w: top-level type %q", geo.ErrMalformedDocument, probe.Type)
	}

	doc := &geo.Document{Boundaries: make([]geo.Boundary, 0, len(features))}
	for i := range features {
		b, err := decodeFeature(&features[i], opts)
		if err != nil {
			fe := &FeatureError{Index: i, ID: b.ID, Err: err}
			if opts.OnSkip == nil {
				return nil, fe
			}
			opts.OnSkip(fe)
			continue
		}

		// an extension feature adds its rings to the boundary just before it
		if n := len(doc.Boundaries); n > 0 && doc.Boundaries[n-1].ID == b.ID &&
			truthy(features[i].Properties[PropExtension]) {
			doc.Boundaries[n-1].Rings = append(doc.Boundaries[n-1].Rings, b.Rings...)
			continue
		}
		doc.Boundaries = append(doc.Boundaries, b)
	}

	return doc, nil
}

// decodeFeature returns the boundary; on error its ID is still set when known.
func decodeFeature(f *geo.GeoJSONFeature, opts Options) (geo.Boundary, error) {
	var b geo.Boundary

	idProp := opts.idProp()
	id, _ := f.Properties[idProp].(string)
	if strings.TrimSpace(id) == "" && idProp == DefaultIdentifierProperty {
		id, _ = f.Properties[legacyIdentifierProperty].(string)
	}
	b.ID = strings.TrimSpace(id)
	if b.ID == "" {
		return b, fmt.Errorf("%w: property %q", geo.ErrMissingIdentifier, idProp)
	}

	if f.Geometry == nil {
		return b, fmt.Errorf("%w: null geometry", geo.ErrUnsupportedGeometry)
	}

	var err error
	switch f.Geometry.Type {
	case TypePolygon:
		var poly [][][]json.RawMessage
		if err = json.Unmarshal(f.Geometry.Coordinates, &poly); err != nil {
			return b, fmt.Errorf("%w: %v", geo.ErrMalformedPosition, err)
		}
		b.Rings, err = decodePolygons([][][][]json.RawMessage{poly})
	case TypeMultiPolygon:
		var multi [][][][]json.RawMessage
		if err = json.Unmarshal(f.Geometry.Coordinates, &multi); err != nil {
			return b, fmt.Errorf("%w: %v", geo.ErrMalformedPosition, err)
		}
		b.Rings, err = decodePolygons(multi)
	default:
		return b, fmt.Errorf("%w: %q", geo.ErrUnsupportedGeometry, f.Geometry.Type)
	}
	if err != nil {
		return b, err
	}

	if v, ok := f.Properties[PropOceanic]; ok {
		b.Oceanic = truthy(v)
	}
	for _, key := range []string{PropLabel, legacyLabelProperty} {
		if label, ok := decodeLabel(f.Properties[key]); ok {
			b.Label = &label
			break
		}
	}

	return b, nil
}

// decodePolygons keeps the outer ring of every polygon; holes are refused.
func decodePolygons(polys [][][][]json.RawMessage) ([]geo.Ring, error) {
	rings := make([]geo.Ring, 0, len(polys))
	for pi, poly := range polys {
		switch {
		case len(poly) == 0:
			continue
		case len(poly) > 1:
			return nil, fmt.Errorf("%w: polygon %d has %d interior rings", geo.ErrUnsupportedGeometry, pi, len(poly)-1)
		}

		ring := make(geo.Ring, 0, len(poly[0]))
		for i, raw := range poly[0] {
			p, err := decodePosition(raw)
			if err != nil {
				return nil, fmt.Errorf("polygon %d position %d: %w", pi, i, err)
			}
			ring = append(ring, p)
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// decodePosition reads [lon, lat, ...]; extra members such as altitude are ignored.
func decodePosition(raw []json.RawMessage) (geo.Point, error) {
	if len(raw) < 2 {
		return geo.Point{}, fmt.Errorf("%w: %d members", geo.ErrMalformedPosition, len(raw))
	}

	var lon, lat float64
	if err := json.Unmarshal(raw[0], &lon); err != nil {
		return geo.Point{}, fmt.Errorf("%w: longitude: %v", geo.ErrMalformedPosition, err)
	}
	if err := json.Unmarshal(raw[1], &lat); err != nil {
		return geo.Point{}, fmt.Errorf("%w: latitude: %v", geo.ErrMalformedPosition, err)
	}

	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("%w: [%g, %g]", geo.ErrOutOfRange, lon, lat)
	}
	return p, nil
}

// decodeLabel reads [lon, lat]; members may be numbers or numeric strings.
func decodeLabel(v any) (geo.Point, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return geo.Point{}, false
	}
	lon, ok1 := number(arr[0])
	lat, ok2 := number(arr[1])
	p := geo.Point{Lat: lat, Lon: lon}
	return p, ok1 && ok2 && p.Valid()
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "1" || strings.EqualFold(t, "true")
	default:
		return false
	}
}
