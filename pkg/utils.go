package pkg

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"drebinprep/pkg/format"
	"drebinprep/pkg/io"
	"drebinprep/pkg/model"
)

// ensureAttributes collects the attributes when forced or when the attributes file is missing.
func ensureAttributes(cfg Config) error {
	if !cfg.Collect {
		if io.Exists(cfg.AttributesPath()) {
			return nil
		}
		log.Info().Str("File", cfg.AttributesPath()).Msg("Attributes file doesn't exist, so")
	}
	return Collect(cfg)
}

// LoadDictionary indexes every distinct line of the attributes file.
func LoadDictionary(path string, base int, normalization model.Normalization) (*model.Dictionary, error) {
	lines, err := io.ReadLinesFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error loading attributes")
	}
	dict := model.NewDictionary(base, normalization)
	for _, line := range lines {
		dict.Add(line)
	}
	log.Debug().Int("Lines", len(lines)).Int("Attributes", dict.Size()).Str("Normalization", normalization.String()).Msg("attributes indexed")
	return dict, nil
}

func encodeSample(dict *model.Dictionary, malwares io.Set, sample *io.Sample) (format.Record, error) {
	attributes := roaring.New()
	for _, feature := range sample.Features {
		index, err := dict.Lookup(feature)
		if err != nil {
			return format.Record{}, errors.Wrapf(err, "sample %s", sample.ID)
		}
		attributes.Add(uint32(index))
	}
	return format.Record{
		ID:         sample.ID,
		Malware:    malwares.Contains(sample.ID),
		Attributes: attributes,
	}, nil
}

// walkSamples encodes every sample of the dataset in file name order.
func walkSamples(cfg Config, dict *model.Dictionary, malwares io.Set, fn func(format.Record) error) error {
	samples, err := io.ListSamples(cfg.FeatureDir())
	if err != nil {
		return err
	}
	for _, id := range samples {
		sample, err := io.ReadSample(cfg.FeatureDir(), id)
		if err != nil {
			return err
		}
		record, err := encodeSample(dict, malwares, sample)
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves the format of cfg and loads the labels and the attributes dictionary.
func prepare(cfg Config) (format.Kind, *model.Dictionary, io.Set, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return "", nil, nil, err
	}
	normalization, err := cfg.KeyNormalization(kind)
	if err != nil {
		return "", nil, nil, err
	}
	if err := ensureAttributes(cfg); err != nil {
		return "", nil, nil, err
	}

	malwares, err := io.LoadLabels(cfg.LabelsFile())
	if err != nil {
		return "", nil, nil, err
	}

	log.Info().Msg("reading attributes...")
	dict, err := LoadDictionary(cfg.AttributesPath(), kind.Base(), normalization)
	if err != nil {
		return "", nil, nil, err
	}
	return kind, dict, malwares, nil
}
