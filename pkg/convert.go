package pkg

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"drebinprep/pkg/format"
	"drebinprep/pkg/io"
)

// Convert encodes the whole dataset in the configured format and returns the written file.
// A failure while encoding leaves a truncated output behind.
func Convert(cfg Config) (outputPath string, err error) {
	kind, dict, malwares, err := prepare(cfg)
	if err != nil {
		return "", err
	}
	log.Info().Str("Type", string(kind)).Msg("encoding samples")

	encoder, err := format.NewEncoder(kind)
	if err != nil {
		return "", err
	}
	compression, err := io.ParseCompression(cfg.Compression)
	if err != nil {
		return "", err
	}
	outputPath, err = cfg.OutputPath(kind.FileName())
	if err != nil {
		return "", err
	}

	output, err := io.Create(outputPath, compression)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := output.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "error closing %s", outputPath)
		}
	}()

	if err := encoder.WriteHeader(output, dict); err != nil {
		return "", err
	}

	log.Info().Msg("writing data attributes...")
	count, malwareCount := 0, 0
	err = walkSamples(cfg, dict, malwares, func(record format.Record) error {
		count++
		if record.Malware {
			malwareCount++
		}
		log.Debug().Str("Sample", record.ID).Bool("Malware", record.Malware).Uint64("Attributes", record.Attributes.GetCardinality()).Msg("")
		return encoder.WriteRecord(output, record)
	})
	if err != nil {
		return "", err
	}

	log.Info().Str("File", outputPath).Int("Samples", count).Int("Malware", malwareCount).Int("Attributes", dict.Size()).Msg("dataset written")
	return outputPath, nil
}
