package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/firconv/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
precision: 4
dat:
  delimiter: ":"
  winding: cw
geojson:
  identifier_property: id
  indent: "  "
  winding: ccw
  no_crs: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Precision)
	assert.Equal(t, ":", cfg.Dat.Delimiter)
	assert.Equal(t, geo.WindingClockwise, cfg.Dat.Winding)
	assert.Equal(t, "id", cfg.GeoJSON.IdentifierProperty)
	assert.Equal(t, geo.WindingCounterClockwise, cfg.GeoJSON.Winding)
	assert.Equal(t, "FIRBoundaries", cfg.GeoJSON.Name, "unset keys keep defaults")

	opts := cfg.CodecOptions()
	assert.Equal(t, 4, opts.Dat.Precision)
	assert.Equal(t, 4, opts.GeoJSON.Precision)
	assert.True(t, opts.GeoJSON.NoCRS)
	assert.Equal(t, "  ", opts.GeoJSON.Indent)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	for _, body := range []string{
		"precision: 0\n",
		"precision: 40\n",
		"dat:\n  delimiter: \",\"\n",
		"dat:\n  winding: sideways\n",
		"precision: [1\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, geo.DefaultPrecision, cfg.Precision)
	assert.Equal(t, "ICAO", cfg.GeoJSON.IdentifierProperty)
}
