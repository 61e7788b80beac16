package dat

import (
	"errors"
	"testing"

	"github.com/woozymasta/firconv/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vatspySample = `; FIR boundaries
EGTT|0|0|4|50.000000|-2.000000|54.000000|2.000000|52.000000|0.000000
50.0|-2.0
54.0|-2.0
54.0|2.0
50.0|-2.0

EGTT|0|1|3|49.000000|-6.000000|50.000000|-5.000000|52.000000|0.000000
49.0|-6.0
50.0|-6.0
49.5|-5.0
KZAK|1|0|3|10.000000|170.000000|20.000000|-170.000000|15.000000|180.000000
10.0|170.0
20.0|175.0
15.0|-170.0
`

func TestUnmarshalShortHeader(t *testing.T) {
	doc, err := Unmarshal([]byte("EGLL\n51.0:0.0\n52.0:1.0\n53.0:-1.0\n"), Options{})
	require.NoError(t, err)
	require.Len(t, doc.Boundaries, 1)

	b := doc.Boundaries[0]
	assert.Equal(t, "EGLL", b.ID)
	assert.Nil(t, b.Label)
	require.Len(t, b.Rings, 1)
	assert.Equal(t, geo.Ring{{Lat: 51, Lon: 0}, {Lat: 52, Lon: 1}, {Lat: 53, Lon: -1}}, b.Rings[0])
}

func TestUnmarshalVATSpy(t *testing.T) {
	doc, err := Unmarshal([]byte(vatspySample), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"EGTT", "KZAK"}, doc.IDs())

	egtt := doc.Boundaries[0]
	require.Len(t, egtt.Rings, 2)
	assert.Len(t, egtt.Rings[0], 4)
	assert.Len(t, egtt.Rings[1], 3)
	require.NotNil(t, egtt.Label)
	assert.Equal(t, geo.Point{Lat: 52, Lon: 0}, *egtt.Label)
	assert.False(t, egtt.Oceanic)

	assert.True(t, doc.Boundaries[1].Oceanic)
}

func TestUnmarshalRepeatedIdentifierStartsNewBoundary(t *testing.T) {
	in := "EGTT\n1|1\n2|2\n3|1\nEGPX\n1|1\n2|2\n3|1\nEGTT\n5|5\n6|6\n7|5\n"
	doc, err := Unmarshal([]byte(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"EGTT", "EGPX", "EGTT"}, doc.IDs())
}

func TestUnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		is    error
	}{
		{"coordinate before header", "51.0|0.0\n", 1, geo.ErrMalformedLine},
		{"three coordinate fields", "EGLL\n51.0|0.0|1.0\n", 2, geo.ErrMalformedLine},
		{"non numeric longitude", "EGLL\n51.0|abc\n", 2, geo.ErrMalformedLine},
		{"latitude out of range", "; c\nEGLL\n91.0|0.0\n", 3, geo.ErrOutOfRange},
		{"longitude out of range", "EGLL\n1.0|-180.5\n", 2, geo.ErrOutOfRange},
		{"bad header field count", "EGLL|0|0\n", 1, geo.ErrMalformedLine},
		{"bad oceanic flag", "EGLL|2|0|0|0|0|0|0|0|0\n", 1, geo.ErrMalformedLine},
		{"label out of range", "EGLL|0|0|0|0|0|0|0|95|0\n", 1, geo.ErrOutOfRange},
		{"point count mismatch", "EGLL|0|0|4|0|0|0|0|0|0\n1|1\n2|2\n3|1\n", 1, geo.ErrMalformedLine},
		{"not a number", "EGLL\n1|NaN\n", 2, geo.ErrMalformedLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input), Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)

			var mle *MalformedLineError
			require.True(t, errors.As(err, &mle))
			assert.Equal(t, tt.line, mle.Line)
		})
	}
}

func TestUnmarshalLenient(t *testing.T) {
	in := "0|0\nEGLL\n51|0\n52|zz\n52|1\n53|-1\nBAD|1\n9|9\nEGPX\n55|0\n56|1\n57|0\n"

	var skipped []int
	doc, err := Unmarshal([]byte(in), Options{OnSkip: func(e *MalformedLineError) {
		skipped = append(skipped, e.Line)
	}})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4, 7}, skipped)
	assert.Equal(t, []string{"EGLL", "EGPX"}, doc.IDs())
	assert.Len(t, doc.Boundaries[0].Rings[0], 3)
	assert.Len(t, doc.Boundaries[1].Rings[0], 3)
}

func TestMarshal(t *testing.T) {
	doc := &geo.Document{Boundaries: []geo.Boundary{{
		ID:    "EGLL",
		Rings: []geo.Ring{{{Lat: 51, Lon: 0}, {Lat: 52, Lon: 1}, {Lat: 53, Lon: -1}}},
	}}}

	out, err := Marshal(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "EGLL|0|0|4|51.000000|-1.000000|53.000000|1.000000|52.000000|0.000000\n"+
		"51.000000|0.000000\n"+
		"52.000000|1.000000\n"+
		"53.000000|-1.000000\n"+
		"51.000000|0.000000\n", string(out))

	short, err := Marshal(doc, Options{ShortHeader: true, Delimiter: ":", Precision: 1})
	require.NoError(t, err)
	assert.Equal(t, "EGLL\n51.0:0.0\n52.0:1.0\n53.0:-1.0\n51.0:0.0\n", string(short))
}

func TestMarshalRejectsBadIdentifier(t *testing.T) {
	for _, id := range []string{"", "  ", "12AB", "A|B", "; x", " EGLL", "EGLL\t"} {
		doc := &geo.Document{Boundaries: []geo.Boundary{{ID: id, Rings: []geo.Ring{{{Lat: 1, Lon: 1}}}}}}
		_, err := Marshal(doc, Options{})
		assert.Error(t, err, id)
	}

	_, err := Marshal(&geo.Document{}, Options{Delimiter: ","})
	assert.Error(t, err)
}

func TestMarshalWinding(t *testing.T) {
	// counter-clockwise with lon as x
	ring := geo.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0}}
	doc := &geo.Document{Boundaries: []geo.Boundary{{ID: "TEST", Rings: []geo.Ring{ring}}}}

	out, err := Marshal(doc, Options{Winding: geo.WindingClockwise})
	require.NoError(t, err)

	back, err := Unmarshal(out, Options{})
	require.NoError(t, err)
	assert.Equal(t, geo.Clockwise, geo.OrientationOf(back.Boundaries[0].Rings[0]))
	assert.True(t, geo.IsClosed(back.Boundaries[0].Rings[0]))
}

func TestRoundTrip(t *testing.T) {
	for _, opts := range []Options{{}, {ShortHeader: true}, {Delimiter: ":", Precision: 4}} {
		doc, err := Unmarshal([]byte(vatspySample), Options{})
		require.NoError(t, err)

		first, err := Marshal(doc, opts)
		require.NoError(t, err)

		again, err := Unmarshal(first, Options{})
		require.NoError(t, err)

		second, err := Marshal(again, opts)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		kind lineKind
		n    int
	}{
		{"", lineBlank, 0},
		{"   \t", lineBlank, 0},
		{"; comment", lineComment, 0},
		{"# comment", lineComment, 0},
		{"// comment", lineComment, 0},
		{"EGLL", lineHeader, 1},
		{"EGLL|0|0|1|0|0|0|0|0|0", lineHeader, 10},
		{"51.5 | -0.1", lineCoordinate, 2},
		{"-.5:10", lineCoordinate, 2},
		{"+1|2", lineCoordinate, 2},
	}

	for _, tt := range tests {
		kind, fields := classify(tt.in)
		assert.Equal(t, tt.kind, kind, tt.in)
		assert.Len(t, fields, tt.n, tt.in)
	}
}
