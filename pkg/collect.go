package pkg

import (
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"

	"drebinprep/pkg/io"
)

// Collect writes every distinct feature line of the dataset to the attributes file.
// Lines are sorted so the indexes assigned from the file do not depend on the run.
func Collect(cfg Config) error {
	log.Info().Str("Dir", cfg.FeatureDir()).Msg("collecting attributes...")

	samples, err := io.ListSamples(cfg.FeatureDir())
	if err != nil {
		return err
	}

	attributes := io.NewSet()
	for _, id := range samples {
		sample, err := io.ReadSample(cfg.FeatureDir(), id)
		if err != nil {
			return err
		}
		for _, feature := range sample.Features {
			attributes.Add(feature)
		}
	}

	lines := maps.Keys(attributes)
	sort.Strings(lines)

	if err := io.WriteLinesFile(cfg.AttributesPath(), lines, io.NoCompression); err != nil {
		return err
	}
	log.Info().Int("Samples", len(samples)).Int("Attributes", len(lines)).Str("File", cfg.AttributesPath()).Msg("attributes collected")
	return nil
}
