package io

import (
	"encoding/csv"
	gio "io"
	"os"

	"github.com/pkg/errors"
)

// LoadLabels reads the family csv and returns the set of malware identifiers found in its
// first column, kept verbatim. The family name itself is not used. A malformed row fails
// the whole file.
func LoadLabels(path string) (Set, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening labels file")
	}
	defer inputFile.Close()

	malwares, err := ReadLabels(inputFile)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading labels from %s", path)
	}
	return malwares, nil
}

func ReadLabels(r gio.Reader) (Set, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	malwares := NewSet()
	for {
		record, err := reader.Read()
		if err == gio.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := record[0]
		if id != "" {
			malwares.Add(id)
		}
	}
	return malwares, nil
}
