package dat

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/firconv/internal/geo"
)

// Marshal writes the document. Every ring gets its own header and is closed
// before writing; rings after the first are flagged as extensions.
func Marshal(doc *geo.Document, opts Options) ([]byte, error) {
	sep := opts.Delimiter
	switch sep {
	case "":
		sep = "|"
	case "|", ":":
	default:
		return nil, fmt.Errorf("unsupported delimiter %q", sep)
	}

	prec := opts.Precision
	if prec <= 0 {
		prec = geo.DefaultPrecision
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	for i := range doc.Boundaries {
		b := &doc.Boundaries[i]
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("boundary %d: %w", i, geo.ErrMissingIdentifier)
		}
		if kind, _ := classify(b.ID); kind != lineHeader || strings.ContainsAny(b.ID, "|:\r\n") || b.ID != strings.TrimSpace(b.ID) {
			return nil, fmt.Errorf("boundary %d: identifier %q cannot be written as a header", i, b.ID)
		}

		label := b.LabelPoint()
		for j, r := range b.Rings {
			ring := geo.Wind(geo.Close(r), opts.Winding)

			if opts.ShortHeader {
				if _, err := fmt.Fprintln(w, b.ID); err != nil {
					return nil, err
				}
			} else {
				box := geo.Bounds(ring)
				fields := []string{
					b.ID,
					flag(b.Oceanic),
					flag(j > 0),
					strconv.Itoa(len(ring)),
					geo.FormatCoord(box.MinLat, prec),
					geo.FormatCoord(box.MinLon, prec),
					geo.FormatCoord(box.MaxLat, prec),
					geo.FormatCoord(box.MaxLon, prec),
					geo.FormatCoord(label.Lat, prec),
					geo.FormatCoord(label.Lon, prec),
				}
				if _, err := fmt.Fprintln(w, strings.Join(fields, sep)); err != nil {
					return nil, err
				}
			}

			for _, p := range ring {
				if _, err := fmt.Fprintf(w, "%s%s%s\n", geo.FormatCoord(p.Lat, prec), sep, geo.FormatCoord(p.Lon, prec)); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
