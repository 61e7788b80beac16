// Package dat reads and writes the VATSpy-style FIR boundary format.
//
// A file is a sequence of header lines, each followed by the coordinate
// lines of one ring:
//
//	ICAO|IsOceanic|IsExtension|PointCount|MinLat|MinLon|MaxLat|MaxLon|LabelLat|LabelLon
//	lat|lon
//	...
//
// A bare "ICAO" header and ':' as the field delimiter are accepted on read.
// Lines starting with ';', '#' or '//' are comments.
package dat

import "strings"

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineHeader
	lineCoordinate
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineComment:
		return "comment"
	case lineHeader:
		return "header"
	default:
		return "coordinate"
	}
}

// Header field positions.
const (
	fieldICAO = iota
	fieldOceanic
	fieldExtension
	fieldPointCount
	fieldMinLat
	fieldMinLon
	fieldMaxLat
	fieldMaxLon
	fieldLabelLat
	fieldLabelLon

	headerFields
)

// classify tags a raw line by its shape and splits it into trimmed fields.
// Coordinate lines are those whose first field looks like a number.
func classify(text string) (lineKind, []string) {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return lineBlank, nil
	case strings.HasPrefix(s, ";"), strings.HasPrefix(s, "#"), strings.HasPrefix(s, "//"):
		return lineComment, nil
	}

	fields := splitFields(s)
	if looksNumeric(fields[0]) {
		return lineCoordinate, fields
	}
	return lineHeader, fields
}

func splitFields(s string) []string {
	sep := "|"
	if !strings.Contains(s, sep) && strings.Contains(s, ":") {
		sep = ":"
	}

	fields := strings.Split(s, sep)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
