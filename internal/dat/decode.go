package dat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/woozymasta/firconv/internal/geo"
)

// MalformedLineError reports a line that could not be parsed.
type MalformedLineError struct {
	Err    error
	Text   string
	Reason string
	Line   int // 1-based
}

func (e *MalformedLineError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both geo.ErrMalformedLine and the underlying cause.
func (e *MalformedLineError) Unwrap() []error {
	if e.Err == nil {
		return []error{geo.ErrMalformedLine}
	}
	return []error{geo.ErrMalformedLine, e.Err}
}

// Options controls reading and writing.
type Options struct {
	// OnSkip, when set, turns malformed lines into skips: it is called for
	// each one and decoding continues. Nil means the first one is fatal.
	OnSkip func(*MalformedLineError)

	// Delimiter separates fields on write: "|" (default) or ":".
	Delimiter string

	// Precision is the number of decimals per coordinate; <= 0 means geo.DefaultPrecision.
	Precision int

	// Winding reorients rings on write.
	Winding geo.Winding

	// ShortHeader writes bare "ICAO" headers without the VATSpy metadata.
	ShortHeader bool
}

type state int

const (
	expectHeader state = iota // before the first header
	inRing                    // appending coordinates to the open ring
	skipRing                  // lenient mode, dropping lines under a bad header
)

type decoder struct {
	opts Options
	doc  *geo.Document

	state     state
	cur       int // index into doc.Boundaries
	ring      int // index into the current boundary's rings
	lastID    string
	declared  int // point count from a full header, -1 when absent
	headerAt  int
	headerRaw string
}

// Unmarshal parses a DAT document.
func Unmarshal(data []byte, opts Options) (*geo.Document, error) {
	d := &decoder{
		opts: opts,
		doc:  &geo.Document{},
		cur:  -1,
	}

	sc := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for sc.Scan() {
		n++
		if err := d.line(n, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if err := d.finishRing(); err != nil {
		return nil, err
	}

	return d.doc, nil
}

func (d *decoder) line(n int, text string) error {
	kind, fields := classify(text)

	switch kind {
	case lineHeader:
		if err := d.finishRing(); err != nil {
			return err
		}
		if err := d.header(n, text, fields); err != nil {
			d.state = skipRing
			return d.fail(err)
		}

	case lineCoordinate:
		switch d.state {
		case expectHeader:
			return d.fail(&MalformedLineError{Line: n, Text: text, Reason: "coordinate before any header"})
		case skipRing:
			return nil
		}

		p, err := parsePoint(n, text, fields)
		if err != nil {
			return d.fail(err)
		}

		b := &d.doc.Boundaries[d.cur]
		b.Rings[d.ring] = append(b.Rings[d.ring], p)
	}

	return nil
}

// fail returns err, or hands it to OnSkip in lenient mode.
func (d *decoder) fail(err error) error {
	var mle *MalformedLineError
	if d.opts.OnSkip == nil || !errors.As(err, &mle) {
		return err
	}
	d.opts.OnSkip(mle)
	return nil
}

func (d *decoder) header(n int, text string, fields []string) error {
	id := fields[fieldICAO]
	if id == "" {
		return &MalformedLineError{Line: n, Text: text, Reason: "empty identifier", Err: geo.ErrMissingIdentifier}
	}

	var (
		oceanic  bool
		label    *geo.Point
		declared = -1
	)

	switch len(fields) {
	case 1:
	case headerFields:
		var err error
		if oceanic, err = parseFlag(fields[fieldOceanic]); err != nil {
			return &MalformedLineError{Line: n, Text: text, Reason: "bad IsOceanic flag", Err: err}
		}
		if _, err = parseFlag(fields[fieldExtension]); err != nil {
			return &MalformedLineError{Line: n, Text: text, Reason: "bad IsExtension flag", Err: err}
		}
		if declared, err = strconv.Atoi(fields[fieldPointCount]); err != nil || declared < 0 {
			if err == nil {
				err = fmt.Errorf("negative count %d", declared)
			}
			return &MalformedLineError{Line: n, Text: text, Reason: "bad point count", Err: err}
		}
		for _, i := range []int{fieldMinLat, fieldMinLon, fieldMaxLat, fieldMaxLon} {
			if _, err = parseCoord(fields[i]); err != nil {
				return &MalformedLineError{Line: n, Text: text, Reason: fmt.Sprintf("bad bounding box field %d", i+1), Err: err}
			}
		}
		p, perr := parsePoint(n, text, fields[fieldLabelLat:])
		if perr != nil {
			perr.Reason = "bad label position"
			return perr
		}
		label = &p
	default:
		return &MalformedLineError{
			Line:   n,
			Text:   text,
			Reason: fmt.Sprintf("expected 1 or %d header fields, got %d", headerFields, len(fields)),
		}
	}

	if d.state == inRing && id == d.lastID {
		b := &d.doc.Boundaries[d.cur]
		b.Rings = append(b.Rings, nil)
		d.ring = len(b.Rings) - 1
	} else {
		d.doc.Boundaries = append(d.doc.Boundaries, geo.Boundary{
			ID:      id,
			Oceanic: oceanic,
			Label:   label,
			Rings:   []geo.Ring{nil},
		})
		d.cur = len(d.doc.Boundaries) - 1
		d.ring = 0
	}

	d.state = inRing
	d.lastID = id
	d.declared = declared
	d.headerAt = n
	d.headerRaw = text
	return nil
}

// finishRing checks the declared point count of the ring being closed.
func (d *decoder) finishRing() error {
	if d.state != inRing || d.declared < 0 {
		return nil
	}

	got := len(d.doc.Boundaries[d.cur].Rings[d.ring])
	want := d.declared
	d.declared = -1
	if got == want {
		return nil
	}

	return d.fail(&MalformedLineError{
		Line:   d.headerAt,
		Text:   d.headerRaw,
		Reason: fmt.Sprintf("header declares %d points, found %d", want, got),
	})
}

func parsePoint(n int, text string, fields []string) (geo.Point, *MalformedLineError) {
	if len(fields) != 2 {
		return geo.Point{}, &MalformedLineError{
			Line:   n,
			Text:   text,
			Reason: fmt.Sprintf("expected 2 coordinate fields, got %d", len(fields)),
		}
	}

	lat, err := parseCoord(fields[0])
	if err != nil {
		return geo.Point{}, &MalformedLineError{Line: n, Text: text, Reason: "bad latitude", Err: err}
	}
	lon, err := parseCoord(fields[1])
	if err != nil {
		return geo.Point{}, &MalformedLineError{Line: n, Text: text, Reason: "bad longitude", Err: err}
	}

	p := geo.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return geo.Point{}, &MalformedLineError{
			Line:   n,
			Text:   text,
			Reason: fmt.Sprintf("position %g,%g", lat, lon),
			Err:    geo.ErrOutOfRange,
		}
	}

	return p, nil
}

func parseCoord(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("want 0 or 1, got %q", s)
	}
}
