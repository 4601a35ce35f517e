// Package format renders encoded samples as libsvm, Bayes index or sparse ARFF records.
package format

import (
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"

	"drebinprep/pkg/model"
)

type Kind string

const (
	SVM   Kind = "svm"
	Bayes Kind = "bayes"
	ARFF  Kind = "arff"
)

var Kinds = []Kind{SVM, Bayes, ARFF}

func ParseKind(value string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == value {
			return k, nil
		}
	}
	return "", errors.Errorf("invalid type %q, expected svm, bayes or arff", value)
}

// Base is the index given to the first attribute of the dictionary.
func (k Kind) Base() int {
	if k == SVM {
		return 1
	}
	return 0
}

// DefaultNormalization is the key policy used when none is configured.
func (k Kind) DefaultNormalization() model.Normalization {
	if k == Bayes {
		return model.NormalizeStrip
	}
	return model.NormalizeNone
}

func (k Kind) FileName() string {
	switch k {
	case Bayes:
		return "android_malwares.bayes"
	case ARFF:
		return "android_malwares.arff"
	default:
		return "android_malwares.libsvm"
	}
}

// Record is a single sample ready to be written.
type Record struct {
	ID      string
	Malware bool

	// Attributes holds the dictionary indexes of the sample features
	Attributes *roaring.Bitmap
}

type Encoder interface {
	WriteHeader(w io.Writer, dict *model.Dictionary) error
	WriteRecord(w io.Writer, r Record) error
}

var registry = map[Kind]func() Encoder{
	SVM:   func() Encoder { return svmEncoder{} },
	Bayes: func() Encoder { return bayesEncoder{} },
	ARFF:  func() Encoder { return &arffEncoder{} },
}

func NewEncoder(k Kind) (Encoder, error) {
	newEncoder, ok := registry[k]
	if !ok {
		return nil, errors.Errorf("no encoder for type %q", k)
	}
	return newEncoder(), nil
}
