package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/detection-tools/internal/cli"
	"github.com/ironsheep/detection-tools/internal/curve"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const name = "learning-curve"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		o        curve.Options
		logLevel string
	)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.Title, "title", "", "title of the plot")
	fs.IntVar(&o.Skip, "skip", 0, "skip the first N iterations in the plot")
	fs.Float64Var(&o.YLimit, "ylimit", 0, "clip the y axis at this value (0 means no clipping)")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $"+cli.LogLevelEnv+" or info)")

	printUsage := func(w io.Writer) {
		fmt.Fprintf(w, "%s - plot learning curves from a Caffe training log\n\n", name)
		fmt.Fprintf(w, "Usage: %s [options] <log-file> <output-path>\n\n", name)
		fmt.Fprintln(w, "Writes <output-path>.pdf, .png, .csv and .html.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		out := fs.Output()
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(out)
		fmt.Fprintln(w, "  --version, -v\n    \tPrint version information")
	}
	fs.Usage = func() { printUsage(stderr) }

	info := cli.BuildInfo{Name: name, Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if cli.HandleInfoArgs(args, info, stdout, printUsage) {
		return 0
	}

	positional, err := cli.ParseArgs(fs, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if len(positional) != 2 {
		fmt.Fprintf(stderr, "ERROR: expected 2 arguments, got %d\n\n", len(positional))
		printUsage(stderr)
		return 1
	}
	pathLog, pathOut := positional[0], positional[1]

	if err := cli.SetupLogging(logLevel); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	if err := cli.CheckFile(pathLog); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n\n", err)
		printUsage(stderr)
		return 1
	}

	log.Infof("-- Processing log: %s", pathLog)
	l, err := curve.ScanFile(pathLog)
	if err != nil {
		log.Error(err)
		return 1
	}
	log.Infof("-- Done processing log: %d training, %d validation iterations",
		len(l.Train.Iterations), len(l.Valid.Iterations))

	if err := curve.Export(l, pathOut, o); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}
