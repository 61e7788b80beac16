package geo

import "encoding/json"

// CRS84 is the coordinate reference system name written into collections.
const CRS84 = "urn:ogc:def:crs:OGC:1.3:CRS84"

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure plus the legacy "crs" member.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Name     string           `json:"name,omitempty"`
	CRS      *GeoJSONCRS      `json:"crs,omitempty"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONCRS is the named CRS object from the 2008 GeoJSON draft.
type GeoJSONCRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// NewCRS84 returns the CRS member for WGS84 lon/lat.
func NewCRS84() *GeoJSONCRS {
	return &GeoJSONCRS{
		Type:       "name",
		Properties: map[string]string{"name": CRS84},
	}
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Type       string           `json:"type"`
	Properties map[string]any   `json:"properties"`
	Geometry   *GeoJSONGeometry `json:"geometry"`
}

// GeoJSONGeometry keeps coordinates raw; their nesting depends on Type.
type GeoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"` // [Lon, Lat]
}
