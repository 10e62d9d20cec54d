package detection

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedRecord is returned for a detections line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed detection record")

const (
	bbtxtFields  = 7  // filename label confidence xmin ymin xmax ymax
	bb3txtFields = 10 // filename label confidence fblx fbly fbrx fbry rblx rbly ftly
)

// LoadBBTXT reads a BBTXT file of 2D detections.
func LoadBBTXT(path string) (Set, error) {
	return loadFile(path, ReadBBTXT)
}

// LoadBB3TXT reads a BB3TXT file of 3D box footprints.
func LoadBB3TXT(path string) (Set, error) {
	return loadFile(path, ReadBB3TXT)
}

// ReadBBTXT parses BBTXT lines:
//
//	filename label confidence xmin ymin xmax ymax
//
// name is used in error messages only.
func ReadBBTXT(r io.Reader, name string) (Set, error) {
	return readRecords(r, name, bbtxtFields, func(rec Record, v []float64) Box {
		return BoundingBox2D{Record: rec, XMin: v[0], YMin: v[1], XMax: v[2], YMax: v[3]}
	})
}

// ReadBB3TXT parses BB3TXT lines:
//
//	filename label confidence fblx fbly fbrx fbry rblx rbly ftly
func ReadBB3TXT(r io.Reader, name string) (Set, error) {
	return readRecords(r, name, bb3txtFields, func(rec Record, v []float64) Box {
		return BoundingBox3D{
			Record: rec,
			FBLX:   v[0], FBLY: v[1],
			FBRX: v[2], FBRY: v[3],
			RBLX: v[4], RBLY: v[5],
			FTLY: v[6],
		}
	})
}

func loadFile(path string, read func(io.Reader, string) (Set, error)) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open detections")
	}
	defer f.Close()
	return read(f, path)
}

func readRecords(r io.Reader, name string, fields int, build func(Record, []float64) Box) (Set, error) {
	set := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != fields {
			return nil, errors.Wrapf(ErrMalformedRecord, "%s:%d: expected %d fields, got %d", name, lineNo, fields, len(parts))
		}

		conf, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedRecord, "%s:%d: confidence %q", name, lineNo, parts[2])
		}

		values := make([]float64, 0, fields-3)
		for _, p := range parts[3:] {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedRecord, "%s:%d: coordinate %q", name, lineNo, p)
			}
			values = append(values, v)
		}

		set.Add(build(Record{Key: parts[0], Label: parts[1], Confidence: conf}, values))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}

	return set, nil
}
