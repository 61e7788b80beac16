package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/firconv/internal/codec"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Batch converts every input into outDir in the target format, running up
// to concurrency files at once. Each file is an independent job; a failing
// file does not stop the others. Results keep the order of inputs.
func Batch(ctx context.Context, inputs []string, outDir string, to codec.Format, concurrency int, opts Options) ([]*Result, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+to.Ext())
		if prev, dup := seen[out]; dup {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, in, out)
		}
		seen[out] = in
		outputs[i] = out
	}

	log.Info().
		Int("files", len(inputs)).
		Str("out_dir", outDir).
		Str("format", to.String()).
		Int("concurrency", concurrency).
		Bool("fix", opts.Fix).
		Msg("Starting batch")

	results := make([]*Result, len(inputs))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = (&Result{Input: inputs[i], Output: outputs[i]}).fail(err)
				return err
			}

			res, err := batchOne(inputs[i], outputs[i], opts)
			results[i] = res
			if err != nil {
				log.Error().Err(err).Str("input", inputs[i]).Msg("Failed to process file")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, errors.Join(errs...)
}

// batchOne converts one file. Inputs already in the target format are
// rewritten (and repaired with Fix) rather than treated as an in-place fix.
func batchOne(input, output string, opts Options) (*Result, error) {
	res := &Result{Input: input, Output: output, Mode: ModeConvert}

	mode := ModeConvert
	if opts.Fix {
		mode = ModeFix
	}

	if err := run(res, mode, opts); err != nil {
		return res.fail(err), err
	}
	return res, nil
}
