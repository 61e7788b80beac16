package processor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/firconv/internal/codec"
	"github.com/woozymasta/firconv/internal/dat"
	"github.com/woozymasta/firconv/internal/geojson"
	"github.com/woozymasta/firconv/internal/repair"
	"github.com/woozymasta/firconv/internal/validate"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

// ErrOutputExists is returned when a convert target exists and Force is off.
var ErrOutputExists = errors.New("output file exists")

// Options configures a run.
type Options struct {
	Codec codec.Options

	// Fix repairs before writing in convert and batch runs.
	Fix bool
	// Force overwrites existing outputs of convert and batch runs.
	Force bool
	// Minify compacts GeoJSON output.
	Minify bool
}

// Result is the outcome for one input file.
type Result struct {
	Error      error           `json:"-" yaml:"-"`
	Input      string          `json:"input" yaml:"input"`
	Output     string          `json:"output,omitempty" yaml:"output,omitempty"`
	ErrorText  string          `json:"error,omitempty" yaml:"error,omitempty"`
	Report     validate.Report `json:"report" yaml:"report"`
	Notes      repair.Notes    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Skipped    []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Mode       Mode            `json:"mode" yaml:"mode"`
	Boundaries int             `json:"boundaries" yaml:"boundaries"`
}

// OK reports whether the run succeeded and, when validating, found nothing.
func (r *Result) OK() bool {
	if r.Error != nil {
		return false
	}
	if r.Mode == ModeValidate {
		return r.Report.Valid()
	}
	return len(r.Notes.Unresolved()) == 0
}

func (r *Result) fail(err error) *Result {
	r.Error = err
	r.ErrorText = err.Error()
	return r
}

// Process runs one job; the mode follows from the two paths (see DetectMode).
// The returned Result is never nil; its Error mirrors the returned error.
func Process(input, output string, opts Options) (*Result, error) {
	mode, err := DetectMode(input, output)
	res := &Result{Input: input, Output: output, Mode: mode}
	if err != nil {
		return res.fail(err), err
	}

	if mode == ModeConvert && opts.Fix {
		mode = ModeFix
	}

	if err := run(res, mode, opts); err != nil {
		return res.fail(err), err
	}
	return res, nil
}

func run(res *Result, mode Mode, opts Options) error {
	from, to, err := formats(res.Input, res.Output)
	if err != nil {
		return err
	}

	if res.Mode == ModeConvert && !opts.Force {
		if _, err := os.Stat(res.Output); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, res.Output)
		}
	}

	data, err := os.ReadFile(res.Input)
	if err != nil {
		return err
	}

	log.Debug().
		Str("input", res.Input).
		Str("format", from.String()).
		Str("mode", res.Mode.String()).
		Int("bytes", len(data)).
		Msg("Parsing boundaries")

	copts := opts.Codec
	if mode == ModeFix {
		copts = lenient(copts, res)
	}

	doc, err := codec.Parse(from, data, copts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", res.Input, err)
	}

	res.Report = codec.Validate(doc)
	logFindings(res.Input, res.Report)

	if mode == ModeValidate {
		res.Boundaries = len(doc.Boundaries)
		return nil
	}

	if mode == ModeFix {
		doc, res.Notes = codec.Repair(doc, res.Report)
		logNotes(res.Input, res.Notes)
	}
	res.Boundaries = len(doc.Boundaries)

	out, err := codec.Serialize(to, doc, opts.Codec)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", res.Output, err)
	}

	if opts.Minify && to == codec.GeoJSON {
		if out, err = minifyJSON(out); err != nil {
			return fmt.Errorf("minify %s: %w", res.Output, err)
		}
	}

	if err := writeOutput(res.Output, out); err != nil {
		return err
	}

	log.Info().
		Str("input", res.Input).
		Str("output", res.Output).
		Str("format", to.String()).
		Int("boundaries", res.Boundaries).
		Int("findings", len(res.Report.Findings)).
		Msg("Boundaries written")

	return nil
}

// lenient turns malformed lines and features into skips recorded on res.
func lenient(opts codec.Options, res *Result) codec.Options {
	opts.Dat.OnSkip = func(e *dat.MalformedLineError) {
		res.Skipped = append(res.Skipped, e.Error())
		log.Warn().
			Str("input", res.Input).
			Int("line", e.Line).
			Str("text", e.Text).
			Str("reason", e.Reason).
			Msg("Skipping malformed line")
	}
	opts.GeoJSON.OnSkip = func(e *geojson.FeatureError) {
		res.Skipped = append(res.Skipped, e.Error())
		log.Warn().
			Str("input", res.Input).
			Int("feature", e.Index).
			Str("boundary", e.ID).
			Err(e.Err).
			Msg("Skipping feature")
	}
	return opts
}

func logFindings(input string, report validate.Report) {
	for _, f := range report.Findings {
		ev := log.Warn().
			Str("input", input).
			Str("kind", f.Kind.String()).
			Str("boundary", f.Boundary).
			Int("index", f.Index)
		if f.Ring != validate.NoRing {
			ev = ev.Int("ring", f.Ring)
		}
		ev.Msg("Validation finding")
	}
}

func logNotes(input string, notes repair.Notes) {
	for _, n := range notes {
		ev := log.Info()
		if n.Unresolved {
			ev = log.Warn()
		}
		ev.Str("input", input).
			Str("kind", n.Kind.String()).
			Str("boundary", n.Boundary).
			Str("action", n.Action).
			Bool("unresolved", n.Unresolved).
			Msg("Repair applied")
	}
}

func minifyJSON(data []byte) ([]byte, error) {
	m := minify.New()
	m.Add("application/json", &minjson.Minifier{KeepNumbers: true})

	out, err := m.Bytes("application/json", data)
	if err != nil {
		return nil, err
	}
	return append(bytes.TrimSpace(out), '\n'), nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// a failed close can lose buffered data
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
			if err == nil {
				err = closeErr
			}
		}
	}()

	_, err = f.Write(data)
	return err
}
