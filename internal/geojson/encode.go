package geojson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/woozymasta/firconv/internal/geo"
)

type position [2]json.Number

// Marshal writes the document as a FeatureCollection with one Feature per
// boundary: Polygon for a single ring, MultiPolygon otherwise. Rings are
// closed and written longitude first.
func Marshal(doc *geo.Document, opts Options) ([]byte, error) {
	prec := opts.Precision
	if prec <= 0 {
		prec = geo.DefaultPrecision
	}

	fc := geo.GeoJSONFeatureCollection{
		Type:     TypeFeatureCollection,
		Name:     opts.Name,
		Features: make([]geo.GeoJSONFeature, 0, len(doc.Boundaries)),
	}
	if !opts.NoCRS {
		fc.CRS = geo.NewCRS84()
	}

	for i := range doc.Boundaries {
		f, err := encodeBoundary(&doc.Boundaries[i], opts, prec)
		if err != nil {
			return nil, fmt.Errorf("boundary %d: %w", i, err)
		}
		fc.Features = append(fc.Features, f)
	}

	var (
		out []byte
		err error
	)
	if opts.Indent != "" {
		out, err = json.MarshalIndent(fc, "", opts.Indent)
	} else {
		out, err = json.Marshal(fc)
	}
	if err != nil {
		return nil, err
	}

	return append(out, '\n'), nil
}

func encodeBoundary(b *geo.Boundary, opts Options, prec int) (geo.GeoJSONFeature, error) {
	if b.ID == "" {
		return geo.GeoJSONFeature{}, geo.ErrMissingIdentifier
	}
	if b.ID != strings.TrimSpace(b.ID) {
		return geo.GeoJSONFeature{}, fmt.Errorf("identifier %q has surrounding whitespace", b.ID)
	}

	rings := make([][]position, len(b.Rings))
	for i, r := range b.Rings {
		rings[i] = encodeRing(geo.Wind(geo.Close(r), opts.Winding), prec)
	}

	geom := &geo.GeoJSONGeometry{}
	var (
		coords []byte
		err    error
	)
	if len(rings) == 1 {
		geom.Type = TypePolygon
		coords, err = json.Marshal([][]position{rings[0]})
	} else {
		geom.Type = TypeMultiPolygon
		multi := make([][][]position, len(rings))
		for i := range rings {
			multi[i] = [][]position{rings[i]}
		}
		coords, err = json.Marshal(multi)
	}
	if err != nil {
		return geo.GeoJSONFeature{}, err
	}
	geom.Coordinates = coords

	props := map[string]any{
		opts.idProp(): b.ID,
		PropOceanic:   b.Oceanic,
	}
	if b.Label != nil {
		props[PropLabel] = position{
			json.Number(geo.FormatCoord(b.Label.Lon, prec)),
			json.Number(geo.FormatCoord(b.Label.Lat, prec)),
		}
	}

	return geo.GeoJSONFeature{
		Type:       TypeFeature,
		Properties: props,
		Geometry:   geom,
	}, nil
}

func encodeRing(r geo.Ring, prec int) []position {
	out := make([]position, len(r))
	for i, p := range r {
		out[i] = position{
			json.Number(geo.FormatCoord(p.Lon, prec)),
			json.Number(geo.FormatCoord(p.Lat, prec)),
		}
	}
	return out
}
