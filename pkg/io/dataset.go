package io

import (
	"math/rand"

	"github.com/pkg/errors"
)

// ErrInsufficientData is returned when more lines are requested than available.
var ErrInsufficientData = errors.New("insufficient data")

// ErrInvalidSize is returned for a negative sample or split size.
var ErrInvalidSize = errors.New("invalid size")

// LineSet holds the records of a generated file for random sampling.
type LineSet struct {
	Lines []string
	Rand  *rand.Rand
}

func NewLineSet(lines []string, rnd *rand.Rand) *LineSet {
	return &LineSet{Lines: lines, Rand: rnd}
}

func (d *LineSet) Size() int {
	return len(d.Lines)
}

// Sample draws size distinct lines. Successive calls are independent, so two samples may
// share lines.
func (d *LineSet) Sample(size int) ([]string, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "cannot sample %d lines", size)
	}
	if size > d.Size() {
		return nil, errors.Wrapf(ErrInsufficientData, "cannot sample %d lines out of %d", size, d.Size())
	}
	ind := d.Rand.Perm(d.Size())
	sample := make([]string, size)
	for i := range sample {
		sample[i] = d.Lines[ind[i]]
	}
	return sample, nil
}

// RandomSplit shuffles the lines and cuts them into disjoint splits of the given sizes.
func (d *LineSet) RandomSplit(sizes ...int) ([][]string, error) {
	total := 0
	for _, size := range sizes {
		if size < 0 {
			return nil, errors.Wrapf(ErrInvalidSize, "cannot split %d lines", size)
		}
		total += size
	}
	if total > d.Size() {
		return nil, errors.Wrapf(ErrInsufficientData, "cannot split %d lines out of %d", total, d.Size())
	}

	indices := d.Rand.Perm(d.Size())
	splits := make([][]string, len(sizes))
	idx := 0
	for i := range sizes {
		split := make([]string, sizes[i])
		for j := range split {
			split[j] = d.Lines[indices[idx]]
			idx++
		}
		splits[i] = split
	}
	return splits, nil

}
