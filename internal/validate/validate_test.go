package validate

import (
	"encoding/json"
	"testing"

	"github.com/woozymasta/firconv/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	triangle       = geo.Ring{{Lat: 51, Lon: 0}, {Lat: 52, Lon: 1}, {Lat: 53, Lon: -1}, {Lat: 51, Lon: 0}}
	openTriangle   = geo.Ring{{Lat: 51, Lon: 0}, {Lat: 52, Lon: 1}, {Lat: 53, Lon: -1}}
	twoPointClosed = geo.Ring{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 1, Lon: 1}}
)

func TestValidateClean(t *testing.T) {
	doc := &geo.Document{Boundaries: []geo.Boundary{
		{ID: "EGTT", Rings: []geo.Ring{triangle}},
		{ID: "EGPX", Rings: []geo.Ring{triangle, triangle}},
	}}

	r := Validate(doc)
	assert.True(t, r.Valid())
	assert.Empty(t, r.Findings)
}

func TestValidateEmptyDocument(t *testing.T) {
	assert.True(t, Validate(&geo.Document{}).Valid())
}

func TestValidateOneFindingPerBoundary(t *testing.T) {
	doc := &geo.Document{Boundaries: []geo.Boundary{
		{ID: "EGTT", Rings: []geo.Ring{triangle}},
		{ID: "EGPX", Rings: []geo.Ring{openTriangle}},
		{ID: "EGTT", Rings: []geo.Ring{triangle}},
		{ID: "EISN", Rings: []geo.Ring{twoPointClosed}},
	}}

	r := Validate(doc)
	require.Len(t, r.Findings, 3)
	assert.Equal(t, []Finding{
		{Kind: DuplicateIdentifier, Boundary: "EGTT", Index: 2, Ring: NoRing},
		{Kind: UnclosedRing, Boundary: "EGPX", Index: 1, Ring: 0},
		{Kind: DegenerateRing, Boundary: "EISN", Index: 3, Ring: 0},
	}, r.Findings)

	assert.Empty(t, r.ByBoundary(0))
	for _, i := range []int{1, 2, 3} {
		assert.Len(t, r.ByBoundary(i), 1)
	}
}

func TestValidateAccumulates(t *testing.T) {
	ring := geo.Ring{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	doc := &geo.Document{Boundaries: []geo.Boundary{
		{ID: "A", Rings: []geo.Ring{ring}},
		{ID: "B"},
		{ID: "B"},
	}}

	r := Validate(doc)
	assert.Equal(t, 1, r.Count(DuplicateIdentifier))
	assert.Equal(t, 1, r.Count(UnclosedRing))
	assert.Equal(t, 1, r.Count(ConsecutiveDuplicates))
	assert.Equal(t, 1, r.Count(DegenerateRing))
	assert.Equal(t, 2, r.Count(EmptyBoundary))
	assert.Equal(t, DuplicateIdentifier, r.Findings[0].Kind)
}

func TestValidateCaseSensitiveIdentifiers(t *testing.T) {
	doc := &geo.Document{Boundaries: []geo.Boundary{
		{ID: "egtt", Rings: []geo.Ring{triangle}},
		{ID: "EGTT", Rings: []geo.Ring{triangle}},
	}}
	assert.True(t, Validate(doc).Valid())
}

func TestValidateDoesNotMutate(t *testing.T) {
	doc := &geo.Document{Boundaries: []geo.Boundary{{ID: "X", Rings: []geo.Ring{openTriangle}}}}
	before := doc.Clone()
	Validate(doc)
	assert.Equal(t, before, doc)
}

func TestKindText(t *testing.T) {
	f := Finding{Kind: UnclosedRing, Boundary: "EGLL", Index: 0, Ring: 0}

	js, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"boundary":"EGLL","kind":"UnclosedRing","index":0,"ring":0}`, string(js))

	var back Finding
	require.NoError(t, json.Unmarshal(js, &back))
	assert.Equal(t, f, back)

	y, err := yaml.Marshal(Report{Findings: []Finding{f}})
	require.NoError(t, err)
	assert.Contains(t, string(y), "kind: UnclosedRing")

	assert.Equal(t, "EGLL #0 ring 0: UnclosedRing", f.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
