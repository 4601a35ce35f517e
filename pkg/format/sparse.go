package format

import (
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"drebinprep/pkg/model"
)

// svmEncoder writes libsvm lines with a binary presence value per attribute:
//
//	1 3:1 17:1 204:1
type svmEncoder struct{}

func (svmEncoder) WriteHeader(io.Writer, *model.Dictionary) error {
	return nil
}

func (svmEncoder) WriteRecord(w io.Writer, r Record) error {
	var line bytes.Buffer
	if r.Malware {
		line.WriteString("1")
	} else {
		line.WriteString("-1")
	}
	it := r.Attributes.Iterator()
	for it.HasNext() {
		line.WriteByte(' ')
		line.WriteString(strconv.FormatUint(uint64(it.Next()), 10))
		line.WriteString(":1")
	}
	line.WriteByte('\n')
	_, err := w.Write(line.Bytes())
	return errors.Wrapf(err, "error writing record %s", r.ID)
}

// bayesEncoder writes the label, a tab and the one based attribute indexes.
type bayesEncoder struct{}

func (bayesEncoder) WriteHeader(io.Writer, *model.Dictionary) error {
	return nil
}

func (bayesEncoder) WriteRecord(w io.Writer, r Record) error {
	var line bytes.Buffer
	if r.Malware {
		line.WriteString("1\t")
	} else {
		line.WriteString("-1\t")
	}
	it := r.Attributes.Iterator()
	for it.HasNext() {
		line.WriteByte(' ')
		line.WriteString(strconv.FormatUint(uint64(it.Next())+1, 10))
	}
	line.WriteByte('\n')
	_, err := w.Write(line.Bytes())
	return errors.Wrapf(err, "error writing record %s", r.ID)
}
