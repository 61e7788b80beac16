// Package codec selects a boundary format and exposes the four operations
// the command line drives: parse, validate, repair and serialize.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/woozymasta/firconv/internal/dat"
	"github.com/woozymasta/firconv/internal/geo"
	"github.com/woozymasta/firconv/internal/geojson"
	"github.com/woozymasta/firconv/internal/repair"
	"github.com/woozymasta/firconv/internal/validate"
)

// ErrUnknownFormat is returned when no codec matches a name or extension.
var ErrUnknownFormat = errors.New("unknown format")

// Format is a boundary file format.
type Format int

const (
	Dat Format = iota + 1
	GeoJSON
)

func (f Format) String() string {
	switch f {
	case Dat:
		return "dat"
	case GeoJSON:
		return "geojson"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the canonical file extension, dot included.
func (f Format) Ext() string {
	if f == GeoJSON {
		return ".geojson"
	}
	return ".dat"
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "dat":
		return Dat, nil
	case "geojson", "json":
		return GeoJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Options carries the per-codec settings.
type Options struct {
	Dat     dat.Options
	GeoJSON geojson.Options
}

// Parse decodes data in the given format.
func Parse(format Format, data []byte, opts Options) (*geo.Document, error) {
	switch format {
	case Dat:
		return dat.Unmarshal(data, opts.Dat)
	case GeoJSON:
		return geojson.Unmarshal(data, opts.GeoJSON)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Validate reports structural defects without touching the document.
func Validate(doc *geo.Document) validate.Report {
	return validate.Validate(doc)
}

// Repair fixes the reported defects in place. It cannot fail.
func Repair(doc *geo.Document, report validate.Report) (*geo.Document, repair.Notes) {
	return repair.Repair(doc, report)
}

// Serialize encodes the document in the given format.
func Serialize(format Format, doc *geo.Document, opts Options) ([]byte, error) {
	switch format {
	case Dat:
		return dat.Marshal(doc, opts.Dat)
	case GeoJSON:
		return geojson.Marshal(doc, opts.GeoJSON)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}
