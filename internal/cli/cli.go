// Package cli holds what both command-line tools share: input path checks,
// logging setup and the --version/--help handling.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LogLevelEnv names the environment variable read when --log-level is empty.
const LogLevelEnv = "DETVIZ_LOG_LEVEL"

// PathError reports a required input path that is missing or of the wrong kind.
type PathError struct {
	Path string
	Want string // "file" or "directory"
	Err  error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("path %q does not exist: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("path %q is not a %s", e.Path, e.Want)
}

func (e *PathError) Unwrap() error { return e.Err }

// CheckFile returns a *PathError unless path is an existing regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &PathError{Path: path, Want: "file", Err: err}
	}
	if !info.Mode().IsRegular() {
		return &PathError{Path: path, Want: "file"}
	}
	return nil
}

// CheckDir returns a *PathError unless path is an existing directory.
func CheckDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &PathError{Path: path, Want: "directory", Err: err}
	}
	if !info.IsDir() {
		return &PathError{Path: path, Want: "directory"}
	}
	return nil
}

// SetupLogging sends logrus text output to stderr at the given level. An
// empty level falls back to $DETVIZ_LOG_LEVEL, then to info.
func SetupLogging(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnv)
	}
	if level == "" {
		level = "info"
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(lvl)
	return nil
}

// BuildInfo is the version metadata injected with -ldflags.
type BuildInfo struct {
	Name      string
	Version   string
	BuildTime string
	GitCommit string
}

// PrintVersion writes the version banner.
func (b BuildInfo) PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", b.Name, b.Version)
	fmt.Fprintf(w, "  Build time: %s\n", b.BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", b.GitCommit)
}

// HandleInfoArgs prints version or help when the first argument asks for
// it and reports whether it did, in which case the caller should exit 0.
func HandleInfoArgs(args []string, info BuildInfo, w io.Writer, usage func(io.Writer)) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "--version", "-v", "version":
		info.PrintVersion(w)
		return true
	case "--help", "-h", "help":
		usage(w)
		return true
	}
	return false
}

// ParseArgs parses flags that may appear before, between or after the
// positional arguments, and returns the positional ones in order.
// Everything after a "--" terminator is positional.
func ParseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// IsSet reports whether the flag was given on the command line.
func IsSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
