package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/detection-tools/internal/cli"
	"github.com/ironsheep/detection-tools/internal/config"
	"github.com/ironsheep/detection-tools/internal/detection"
	"github.com/ironsheep/detection-tools/internal/geometry"
	"github.com/ironsheep/detection-tools/internal/imaging"
	"github.com/ironsheep/detection-tools/internal/labels"
	"github.com/ironsheep/detection-tools/internal/render"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const name = "detections2images"

// Exit statuses.
const (
	exitOK              = 0
	exitFailure         = 1
	exitMissingGeometry = 2
)

type options struct {
	confidence   float64
	offset       int
	length       int
	pathDatasets string
	pathPGP      string
	marker       string
	configPath   string
	logLevel     string
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&opts.confidence, "confidence", render.DefaultConfidence, "minimum confidence of drawn boxes")
	fs.IntVar(&opts.offset, "offset", 0, "index of the first image in sorted order")
	fs.IntVar(&opts.length, "length", 0, "number of images to render (0 means all)")
	fs.StringVar(&opts.pathDatasets, "path_datasets", "", "local dataset root replacing the one in image paths")
	fs.StringVar(&opts.pathPGP, "path_pgp", "", "PGP file; enables 3D mode (detections must be BB3TXT)")
	fs.StringVar(&opts.marker, "marker", "", "dataset root marker in image paths (default \""+detection.DefaultMarker+"\")")
	fs.StringVar(&opts.configPath, "config", "", "JSON config with colours and extra label mappings")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default $"+cli.LogLevelEnv+" or info)")
	return fs
}

// usage prints the mappings in *registry, so mappings added by a loaded
// config show up once it has been read.
func usage(fs *flag.FlagSet, registry *labels.Registry) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "%s - draw detections onto their images\n\n", name)
		fmt.Fprintf(w, "Usage: %s [options] <detections> <label-mapping> <output-dir>\n\n", name)
		fmt.Fprintln(w, "Arguments:")
		fmt.Fprintln(w, "  detections     BBTXT file, or BB3TXT with --path_pgp")
		fmt.Fprintf(w, "  label-mapping  one of: %s\n", strings.Join(registry.Names(), ", "))
		fmt.Fprintln(w, "  output-dir     created if missing")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		out := fs.Output()
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(out)
		fmt.Fprintln(w, "  --version, -v\n    \tPrint version information")
		fmt.Fprintf(w, "\nRasteriser: %s\n", imaging.Backend)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	registry := labels.DefaultRegistry()
	printUsage := usage(fs, &registry)
	fs.Usage = func() { printUsage(stderr) }

	info := cli.BuildInfo{Name: name, Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfoArgs(args, info, stdout, printUsage) {
		return exitOK
	}

	positional, err := cli.ParseArgs(fs, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}
	if len(positional) != 3 {
		fmt.Fprintf(stderr, "ERROR: expected 3 arguments, got %d\n\n", len(positional))
		printUsage(stderr)
		return exitFailure
	}
	pathDetections, mappingName, outDir := positional[0], positional[1], positional[2]

	if err := cli.SetupLogging(opts.logLevel); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitFailure
	}

	checks := []error{cli.CheckFile(pathDetections)}
	if opts.pathDatasets != "" {
		checks = append(checks, cli.CheckDir(opts.pathDatasets))
	}
	if opts.pathPGP != "" {
		checks = append(checks, cli.CheckFile(opts.pathPGP))
	}
	if err := errors.Join(checks...); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n\n", err)
		printUsage(stderr)
		return exitFailure
	}

	cfg := config.Empty()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			log.Error(err)
			return exitFailure
		}
	}
	registry = cfg.Registry(registry)
	if _, err := registry.Get(mappingName); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n\n", err)
		printUsage(stderr)
		return exitFailure
	}
	if !cli.IsSet(fs, "confidence") {
		opts.confidence = cfg.GetConfidence(opts.confidence)
	}
	if opts.marker == "" {
		opts.marker = cfg.GetDatasetMarker()
	}

	if err := convert(pathDetections, mappingName, outDir, opts, cfg, registry); err != nil {
		log.Error(err)
		if errors.Is(err, render.ErrMissingGeometry) {
			return exitMissingGeometry
		}
		return exitFailure
	}
	return exitOK
}

func convert(pathDetections, mappingName, outDir string, opts options, cfg *config.Config, registry labels.Registry) error {
	log.Info("-- DETECTIONS TO IMAGES CONVERTER")

	mapping, err := registry.Get(mappingName)
	if err != nil {
		return err
	}
	palette, err := cfg.Palette(labels.DefaultPalette())
	if err != nil {
		return err
	}

	gen := &render.Generator{
		Renderer: render.NewRenderer(labels.Classes{Mapping: mapping, Palette: palette}, opts.confidence),
		Resolver: detection.PathResolver{Root: opts.pathDatasets, Marker: opts.marker},
		OutDir:   outDir,
	}

	var set detection.Set
	log.Infof("-- Loading detections: %s", pathDetections)
	if opts.pathPGP != "" {
		if set, err = detection.LoadBB3TXT(pathDetections); err != nil {
			return err
		}
		log.Infof("-- Loading PGP: %s", opts.pathPGP)
		if gen.Geometry, err = geometry.LoadPGP(opts.pathPGP); err != nil {
			return err
		}
	} else if set, err = detection.LoadBBTXT(pathDetections); err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	keys := detection.Sequence(set, opts.offset, opts.length)
	log.Infof("-- Rendering %d of %d images (%s)", len(keys), len(set), imaging.Backend)

	stats, err := gen.Run(set, keys)
	if err != nil {
		return err
	}
	log.Infof("-- Done: %d frames, %d boxes drawn", stats.Frames, stats.Boxes)
	return nil
}
