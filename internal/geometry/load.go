package geometry

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedRecord is returned for a PGP line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed PGP record")

// filename, 12 matrix entries, 4 plane coefficients
const pgpFields = 17

// Set maps image keys to their projection geometry.
type Set map[string]*PGP

// LoadPGP reads a PGP file.
func LoadPGP(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PGP file")
	}
	defer f.Close()
	return ReadPGP(f, path)
}

// ReadPGP parses PGP lines:
//
//	filename p00 p01 p02 p03 p10 p11 p12 p13 p20 p21 p22 p23 a b c d
//
// A later line for the same filename replaces the earlier one.
func ReadPGP(r io.Reader, name string) (Set, error) {
	set := make(Set)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != pgpFields {
			return nil, errors.Wrapf(ErrMalformedRecord, "%s:%d: expected %d fields, got %d", name, lineNo, pgpFields, len(parts))
		}

		var v [16]float64
		for i, p := range parts[1:] {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedRecord, "%s:%d: value %q", name, lineNo, p)
			}
			v[i] = f
		}

		var p [12]float64
		copy(p[:], v[:12])
		pgp, err := NewPGP(parts[0], p, Plane{A: v[12], B: v[13], C: v[14], D: v[15]})
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, lineNo)
		}
		set[parts[0]] = pgp
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}

	return set, nil
}
