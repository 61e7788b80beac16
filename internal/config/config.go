// Package config handles configuration loading for the boundary codecs.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/firconv/internal/codec"
	"github.com/woozymasta/firconv/internal/dat"
	"github.com/woozymasta/firconv/internal/geo"
	"github.com/woozymasta/firconv/internal/geojson"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	GeoJSON   GeoJSON `yaml:"geojson" json:"geojson"`
	Dat       Dat     `yaml:"dat" json:"dat"`
	Precision int     `yaml:"precision,omitempty" json:"precision,omitempty"` // decimals per coordinate
}

// Dat holds writer settings for the .dat format.
type Dat struct {
	Delimiter   string      `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	Winding     geo.Winding `yaml:"winding,omitempty" json:"winding,omitempty"`
	ShortHeader bool        `yaml:"short_header,omitempty" json:"short_header,omitempty"`
}

// GeoJSON holds reader and writer settings for GeoJSON.
type GeoJSON struct {
	IdentifierProperty string      `yaml:"identifier_property,omitempty" json:"identifier_property,omitempty"`
	Name               string      `yaml:"name,omitempty" json:"name,omitempty"`
	Indent             string      `yaml:"indent,omitempty" json:"indent,omitempty"`
	Winding            geo.Winding `yaml:"winding,omitempty" json:"winding,omitempty"`
	NoCRS              bool        `yaml:"no_crs,omitempty" json:"no_crs,omitempty"`
}

// Default returns the settings used without a configuration file.
func Default() *Config {
	return &Config{
		Precision: geo.DefaultPrecision,
		Dat:       Dat{Delimiter: "|"},
		GeoJSON: GeoJSON{
			IdentifierProperty: geojson.DefaultIdentifierProperty,
			Name:               "FIRBoundaries",
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Precision < 1 || c.Precision > 15 {
		return fmt.Errorf("precision %d out of range 1..15", c.Precision)
	}
	switch c.Dat.Delimiter {
	case "", "|", ":":
	default:
		return fmt.Errorf("dat delimiter %q (want | or :)", c.Dat.Delimiter)
	}
	return nil
}

// CodecOptions converts the configuration into codec settings.
func (c *Config) CodecOptions() codec.Options {
	return codec.Options{
		Dat: dat.Options{
			Delimiter:   c.Dat.Delimiter,
			Precision:   c.Precision,
			Winding:     c.Dat.Winding,
			ShortHeader: c.Dat.ShortHeader,
		},
		GeoJSON: geojson.Options{
			IdentifierProperty: c.GeoJSON.IdentifierProperty,
			Name:               c.GeoJSON.Name,
			Indent:             c.GeoJSON.Indent,
			Precision:          c.Precision,
			Winding:            c.GeoJSON.Winding,
			NoCRS:              c.GeoJSON.NoCRS,
		},
	}
}
