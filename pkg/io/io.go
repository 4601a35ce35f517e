package io

import (
	"bufio"
	"bytes"
	"fmt"
	gio "io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// FeatureVectorsDir is the dataset subdirectory holding one feature file per sample
	FeatureVectorsDir = "feature_vectors"

	// FamilyFile maps malware sample identifiers to their family
	FamilyFile = "sha256_family.csv"

	maxLineSize = 1024 * 1024
)

type void struct{}

var Void = void{}

type Set map[string]void

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = Void
	}
	return set
}

func (s Set) Add(value string) {
	s[value] = Void
}

func (s Set) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// Sample is the content of a single feature file. ID is the file name, which is
// the sha256 of the application.
type Sample struct {
	ID       string
	Features []string
}

// ListSamples returns the names of the regular files in dir sorted by name.
func ListSamples(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing samples in %s", dir)
	}
	samples := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			log.Debug().Str("Entry", entry.Name()).Msg("skipping non regular file")
			continue
		}
		samples = append(samples, entry.Name())
	}
	sort.Strings(samples)
	return samples, nil
}

// ReadSample reads a feature file as is. Sample names are hashes, so no decompression
// is attempted whatever their extension.
func ReadSample(dir, id string) (*Sample, error) {
	file, err := os.Open(filepath.Join(dir, id))
	if err != nil {
		return nil, errors.Wrapf(err, "error opening sample %s", id)
	}
	defer file.Close()
	features, err := ReadLines(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sample %s", id)
	}
	return &Sample{ID: id, Features: features}, nil
}

// scanRawLines splits on '\n' only. Unlike bufio.ScanLines it keeps a trailing '\r',
// so lines differing by a carriage return stay distinct attributes.
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ReadLines returns every line of r without its '\n' terminator.
func ReadLines(r gio.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	scanner.Split(scanRawLines)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading lines")
	}
	return lines, nil
}

func ReadLinesFile(path string) ([]string, error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	lines, err := ReadLines(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	return lines, nil
}

func WriteLines(w gio.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "error writing line")
		}
	}
	return nil
}

// WriteLinesFile overwrites path with lines, one per line.
func WriteLinesFile(path string, lines []string, compression Compression) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "error creating directory for %s", path)
	}
	file, err := Create(path, compression)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "error closing %s", path)
		}
	}()
	return WriteLines(file, lines)
}

func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
