package cli

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "detections.bbtxt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, CheckFile(file))

	var pe *PathError
	err := CheckFile(filepath.Join(dir, "missing.bbtxt"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "file", pe.Want)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = CheckFile(dir)
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "is not a file")
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, CheckDir(dir))

	var pe *PathError
	require.ErrorAs(t, CheckDir(file), &pe)
	assert.Equal(t, "directory", pe.Want)
	require.ErrorAs(t, CheckDir(filepath.Join(dir, "nope")), &pe)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	t.Setenv(LogLevelEnv, "warn")
	require.NoError(t, SetupLogging(""))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	// the flag wins over the environment
	require.NoError(t, SetupLogging("ERROR"))
	assert.Equal(t, log.ErrorLevel, log.GetLevel())

	t.Setenv(LogLevelEnv, "")
	require.NoError(t, SetupLogging(""))
	assert.Equal(t, log.InfoLevel, log.GetLevel())

	assert.Error(t, SetupLogging("loud"))
}

func TestHandleInfoArgs(t *testing.T) {
	info := BuildInfo{Name: "learning-curve", Version: "1.2.3", BuildTime: "today", GitCommit: "abc123"}
	usage := func(w io.Writer) { io.WriteString(w, "usage text\n") }

	var buf bytes.Buffer
	assert.True(t, HandleInfoArgs([]string{"prog", "--version"}, info, &buf, usage))
	assert.Equal(t, "learning-curve 1.2.3\n  Build time: today\n  Git commit: abc123\n", buf.String())

	buf.Reset()
	assert.True(t, HandleInfoArgs([]string{"prog", "-h"}, info, &buf, usage))
	assert.Equal(t, "usage text\n", buf.String())

	buf.Reset()
	assert.False(t, HandleInfoArgs([]string{"prog", "log.txt", "out"}, info, &buf, usage))
	assert.False(t, HandleInfoArgs([]string{"prog"}, info, &buf, usage))
	assert.Empty(t, buf.String())
}

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	skip := fs.Int("skip", 0, "")
	title := fs.String("title", "", "")

	pos, err := ParseArgs(fs, []string{"--title", "run 1", "log.txt", "--skip=100", "out"})
	require.NoError(t, err)
	assert.Equal(t, []string{"log.txt", "out"}, pos)
	assert.Equal(t, 100, *skip)
	assert.Equal(t, "run 1", *title)
	assert.True(t, IsSet(fs, "skip"))

	fs2 := flag.NewFlagSet("test", flag.ContinueOnError)
	fs2.SetOutput(io.Discard)
	fs2.Int("skip", 0, "")
	_, err = ParseArgs(fs2, []string{"log.txt", "--bogus"})
	assert.Error(t, err)
	assert.False(t, IsSet(fs2, "skip"))
}

func TestParseArgs_Terminator(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	skip := fs.Int("skip", 0, "")

	pos, err := ParseArgs(fs, []string{"--skip", "3", "log.txt", "--", "--skip=5", "-out"})
	require.NoError(t, err)
	assert.Equal(t, []string{"log.txt", "--skip=5", "-out"}, pos)
	assert.Equal(t, 3, *skip)
}
