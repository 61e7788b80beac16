package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/firconv/internal/codec"
	"github.com/woozymasta/firconv/internal/config"
	"github.com/woozymasta/firconv/internal/geo"
	"github.com/woozymasta/firconv/internal/logger"
	"github.com/woozymasta/firconv/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"FIRCONV_CONFIG" description:"Path to YAML configuration file"`
	Report      string `short:"r" long:"report"      description:"Write findings and repair notes to a .json or .yaml file"`
	OutDir      string `short:"o" long:"out-dir"     description:"Output directory for --batch"`
	To          string `short:"t" long:"to"          description:"Target format for --batch" choice:"dat" choice:"geojson" default:"geojson"`
	Winding     string `short:"w" long:"winding"     description:"Ring orientation on output, overrides config" choice:"preserve" choice:"cw" choice:"ccw"`
	Precision   int    `long:"precision"             env:"PRECISION"      description:"Decimals per coordinate, overrides config"`
	Concurrency int    `short:"p" long:"concurrency" env:"CONCURRENCY"    description:"Files processed at once in --batch" default:"4"`
	Batch       bool   `short:"b" long:"batch"       description:"Convert every INPUT into --out-dir"`
	Fix         bool   `long:"fix"                   description:"Repair before converting"`
	Force       bool   `short:"f" long:"force"       description:"Overwrite existing output files"`
	Minify      bool   `short:"m" long:"minify"      description:"Minify GeoJSON output"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] INPUT [OUTPUT]\n\n" +
		"  INPUT only        validate\n" +
		"  OUTPUT same type  fix INPUT and write OUTPUT\n" +
		"  OUTPUT other type convert INPUT to OUTPUT"

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	opts.Logger.Setup()

	cfg := config.Default()
	if opts.ConfigFile != "" {
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return 1
		}
	}
	if opts.Precision != 0 {
		cfg.Precision = opts.Precision
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Msg("Invalid --precision")
			return 1
		}
	}

	copts := cfg.CodecOptions()
	if opts.Winding != "" {
		w, err := geo.ParseWinding(opts.Winding)
		if err != nil {
			log.Error().Err(err).Msg("Invalid --winding")
			return 1
		}
		copts.Dat.Winding = w
		copts.GeoJSON.Winding = w
	}

	popts := processor.Options{
		Codec:  copts,
		Fix:    opts.Fix,
		Force:  opts.Force,
		Minify: opts.Minify,
	}

	var results []*processor.Result
	if opts.Batch {
		if opts.OutDir == "" || len(args) == 0 {
			log.Error().Msg("--batch needs --out-dir and at least one INPUT")
			return 2
		}

		to, err := codec.ParseFormat(opts.To)
		if err != nil {
			log.Error().Err(err).Msg("Invalid --to")
			return 2
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// per-file errors are already logged and carried on the results
		results, err = processor.Batch(ctx, args, opts.OutDir, to, opts.Concurrency, popts)
		if results == nil {
			log.Error().Err(err).Msg("Batch failed")
			return 1
		}
	} else {
		if len(args) < 1 || len(args) > 2 {
			parser.WriteHelp(os.Stderr)
			return 2
		}

		output := ""
		if len(args) == 2 {
			output = args[1]
		}

		res, err := processor.Process(args[0], output, popts)
		if err != nil {
			log.Error().Err(err).Str("input", args[0]).Msg("Failed to process boundaries")
		}
		results = []*processor.Result{res}
	}

	if opts.Report != "" {
		if err := processor.WriteReport(opts.Report, results); err != nil {
			log.Error().Err(err).Str("path", opts.Report).Msg("Failed to write report")
			return 1
		}
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}

	ev := log.Info()
	if failed > 0 {
		ev = log.Warn()
	}
	ev.Int("files", len(results)).Int("failed", failed).Msg("Done")

	if failed > 0 {
		return 1
	}
	return 0
}
