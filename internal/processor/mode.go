// Package processor runs validate, fix and convert jobs over boundary files.
package processor

import (
	"fmt"

	"github.com/woozymasta/firconv/internal/codec"
)

// Mode is what a run does with its input.
type Mode int

const (
	// ModeValidate only reports findings.
	ModeValidate Mode = iota
	// ModeFix repairs the input and writes it in the same format.
	ModeFix
	// ModeConvert writes the input in another format without repair.
	ModeConvert
)

func (m Mode) String() string {
	switch m {
	case ModeFix:
		return "fix"
	case ModeConvert:
		return "convert"
	default:
		return "validate"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// DetectMode picks the mode from the arguments: no output validates, an
// output of the same format fixes, an output of another format converts.
func DetectMode(input, output string) (Mode, error) {
	in, err := codec.FormatFromPath(input)
	if err != nil {
		return ModeValidate, err
	}
	if output == "" {
		return ModeValidate, nil
	}

	out, err := codec.FormatFromPath(output)
	if err != nil {
		return ModeValidate, err
	}
	if in == out {
		return ModeFix, nil
	}
	return ModeConvert, nil
}

func formats(input, output string) (codec.Format, codec.Format, error) {
	in, err := codec.FormatFromPath(input)
	if err != nil {
		return 0, 0, fmt.Errorf("input: %w", err)
	}
	if output == "" {
		return in, 0, nil
	}
	out, err := codec.FormatFromPath(output)
	if err != nil {
		return 0, 0, fmt.Errorf("output: %w", err)
	}
	return in, out, nil
}
