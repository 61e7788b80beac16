package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "51.000000", FormatCoord(51, 6))
	assert.Equal(t, "-1.25", FormatCoord(-1.25, 2))
	assert.Equal(t, "0.000000", FormatCoord(-0.0000001, 6))
	assert.Equal(t, "12.345679", FormatCoord(12.3456789, -1))
}

func TestDocumentClone(t *testing.T) {
	doc := &Document{Boundaries: []Boundary{{
		ID:    "EGTT",
		Label: &Point{Lat: 52, Lon: -1},
		Rings: []Ring{pts(51, 0, 52, 1, 53, -1)},
	}}}

	c := doc.Clone()
	c.Boundaries[0].Rings[0][0].Lat = 10
	c.Boundaries[0].Label.Lat = 10
	c.Boundaries[0].ID = "EGPX"

	assert.Equal(t, 51.0, doc.Boundaries[0].Rings[0][0].Lat)
	assert.Equal(t, 52.0, doc.Boundaries[0].Label.Lat)
	assert.Equal(t, []string{"EGTT"}, doc.IDs())
}

func TestLabelPoint(t *testing.T) {
	b := Boundary{ID: "EGTT", Rings: []Ring{pts(50, -2, 54, 2, 50, 2)}}
	assert.Equal(t, Point{Lat: 52, Lon: 0}, b.LabelPoint())

	b.Label = &Point{Lat: 1, Lon: 2}
	assert.Equal(t, Point{Lat: 1, Lon: 2}, b.LabelPoint())
}
