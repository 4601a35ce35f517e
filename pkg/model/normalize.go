package model

import (
	"regexp"

	"github.com/pkg/errors"
)

// Normalization selects how a raw feature line is turned into a dictionary key.
type Normalization int

const (
	// NormalizeNone keeps the raw line as key
	NormalizeNone Normalization = iota
	// NormalizeStrip removes every run of non-word characters, so lines differing
	// only in punctuation share a key
	NormalizeStrip
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

func (n Normalization) Apply(line string) string {
	switch n {
	case NormalizeStrip:
		return nonWord.ReplaceAllString(line, "")
	default:
		return line
	}
}

func (n Normalization) String() string {
	switch n {
	case NormalizeStrip:
		return "strip"
	default:
		return "none"
	}
}

func ParseNormalization(value string) (Normalization, error) {
	switch value {
	case "none":
		return NormalizeNone, nil
	case "strip":
		return NormalizeStrip, nil
	}
	return NormalizeNone, errors.Errorf("invalid normalization %q, expected none or strip", value)
}
