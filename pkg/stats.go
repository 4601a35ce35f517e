package pkg

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"drebinprep/pkg/format"
)

// ClassStats summarizes the number of distinct attributes per sample of a class.
type ClassStats struct {
	Samples int
	Mean    float64
	StdDev  float64
}

type DatasetStats struct {
	Attributes int
	Overall    ClassStats
	Malware    ClassStats
	NotMalware ClassStats
}

func summarize(counts []float64) ClassStats {
	result := ClassStats{Samples: len(counts)}
	switch len(counts) {
	case 0:
	case 1:
		result.Mean = counts[0]
	default:
		result.Mean, result.StdDev = stat.MeanStdDev(counts, nil)
	}
	return result
}

// Stats walks the dataset with the configured dictionary and reports per class attribute counts.
func Stats(cfg Config) (*DatasetStats, error) {
	_, dict, malwares, err := prepare(cfg)
	if err != nil {
		return nil, err
	}

	var all, malware, notMalware []float64
	err = walkSamples(cfg, dict, malwares, func(record format.Record) error {
		count := float64(record.Attributes.GetCardinality())
		all = append(all, count)
		if record.Malware {
			malware = append(malware, count)
		} else {
			notMalware = append(notMalware, count)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &DatasetStats{
		Attributes: dict.Size(),
		Overall:    summarize(all),
		Malware:    summarize(malware),
		NotMalware: summarize(notMalware),
	}
	result.LogStats()
	return result, nil
}

func (d *DatasetStats) LogStats() {
	log.Info().Int("Attributes", d.Attributes).Msg("")
	for _, class := range []struct {
		name  string
		stats ClassStats
	}{
		{"All", d.Overall},
		{"Malware", d.Malware},
		{"NotMalware", d.NotMalware},
	} {
		log.Info().Str("Class", class.name).
			Int("Samples", class.stats.Samples).
			Float64("MeanAttributes", class.stats.Mean).
			Float64("StdDevAttributes", class.stats.StdDev).
			Msg("")
	}
}
