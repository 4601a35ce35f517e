package model

import "github.com/pkg/errors"

// ErrUnknownAttribute is returned when a feature line has no index in the dictionary,
// which means the attributes file is stale relative to the dataset.
var ErrUnknownAttribute = errors.New("unknown attribute")

// NameMap implements a bidirectional mapping between a name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func (f NameMap) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok

}

func NewNameMap() NameMap {
	return NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

// Dictionary assigns a dense index to every distinct attribute key.
type Dictionary struct {
	// Base is the index given to the first attribute
	Base int

	// Normalization turns a raw feature line into its dictionary key
	Normalization Normalization

	// Attributes holds the raw attribute strings in index order, first seen wins
	Attributes []string

	keys NameMap
}

func NewDictionary(base int, normalization Normalization) *Dictionary {
	return &Dictionary{
		Base:          base,
		Normalization: normalization,
		keys:          NewNameMap(),
	}
}

// Add registers an attribute and returns its index. An attribute whose key is already
// present keeps the index assigned the first time.
func (d *Dictionary) Add(attribute string) int {
	key := d.Normalization.Apply(attribute)
	if index, ok := d.keys.ContainsName(key); ok {
		return index
	}
	index := d.Base + d.keys.Size()
	d.keys.Set(key, index)
	d.Attributes = append(d.Attributes, attribute)
	return index
}

func (d *Dictionary) Lookup(feature string) (int, error) {
	index, ok := d.keys.ContainsName(d.Normalization.Apply(feature))
	if !ok {
		return 0, errors.Wrapf(ErrUnknownAttribute, "%q", feature)
	}
	return index, nil
}

// Key returns the normalized key stored for an index.
func (d *Dictionary) Key(index int) (string, bool) {
	key, ok := d.keys.IndexToName[index]
	return key, ok
}

func (d *Dictionary) Size() int {
	return d.keys.Size()
}
