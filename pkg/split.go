package pkg

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"drebinprep/pkg/format"
	"drebinprep/pkg/io"
)

// Split samples a generated libsvm file into train and test files.
//
// Deprecated: use the subset.py script shipped with libsvm tools.
func Split(cfg Config) (trainPath, testPath string, err error) {
	params := cfg.Split
	input := params.Input
	if input == "" {
		if input, err = cfg.OutputPath(format.SVM.FileName()); err != nil {
			return "", "", err
		}
	}
	compression, err := io.ParseCompression(cfg.Compression)
	if err != nil {
		return "", "", err
	}

	lines, err := io.ReadLinesFile(input)
	if err != nil {
		return "", "", err
	}
	set := io.NewLineSet(lines, rand.New(rand.NewSource(params.RndSeed)))

	var train, test []string
	if params.Disjoint {
		splits, err := set.RandomSplit(params.TrainSize, params.TestSize)
		if err != nil {
			return "", "", err
		}
		train, test = splits[0], splits[1]
	} else {
		log.Info().Msg("generating training set...")
		if train, err = set.Sample(params.TrainSize); err != nil {
			return "", "", err
		}
		log.Info().Msg("generating test set...")
		if test, err = set.Sample(params.TestSize); err != nil {
			return "", "", err
		}
	}

	name := format.SVM.FileName()
	if trainPath, err = cfg.OutputPath("train_" + name); err != nil {
		return "", "", err
	}
	if testPath, err = cfg.OutputPath("test_" + name); err != nil {
		return "", "", err
	}
	if err := io.WriteLinesFile(trainPath, train, compression); err != nil {
		return "", "", err
	}
	if err := io.WriteLinesFile(testPath, test, compression); err != nil {
		return "", "", err
	}

	log.Info().Str("Train", trainPath).Int("TrainSize", len(train)).Str("Test", testPath).Int("TestSize", len(test)).Msg("split written")
	return trainPath, testPath, nil
}
