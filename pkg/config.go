package pkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"drebinprep/pkg/format"
	"drebinprep/pkg/io"
	"drebinprep/pkg/model"
)

// DrebinDirEnv overrides the default dataset root.
const DrebinDirEnv = "DREBIN_DIR"

type SplitParameters struct {
	// Input is the libsvm file to sample, defaults to the svm output file
	Input     string `yaml:"input"`
	TrainSize int    `yaml:"train_size"`
	TestSize  int    `yaml:"test_size"`
	RndSeed   int64  `yaml:"random_seed"`

	// Disjoint draws train and test from a single shuffle so they share no line
	Disjoint bool `yaml:"disjoint"`
}

type Config struct {
	DrebinDir      string `yaml:"drebin"`
	OutputDir      string `yaml:"output_dir"`
	AttributesFile string `yaml:"attributes"`
	Format         string `yaml:"type"`

	// Normalization is none, strip or default to use the format's own policy
	Normalization string `yaml:"normalize"`
	Compression   string `yaml:"compress"`

	// Collect forces the attributes collection before encoding
	Collect bool `yaml:"collect"`

	Split SplitParameters `yaml:"split"`
}

func DefaultConfig() Config {
	return Config{
		DrebinDir:      "./drebin/",
		OutputDir:      ".",
		AttributesFile: "attributes.txt",
		Format:         string(format.SVM),
		Normalization:  "default",
		Compression:    string(io.NoCompression),
		Split: SplitParameters{
			TrainSize: 100000,
			TestSize:  10000,
			RndSeed:   42,
		},
	}
}

// LoadEnv reads a .env file if present and applies the environment overrides.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()
	if dir := strings.TrimSpace(os.Getenv(DrebinDirEnv)); dir != "" {
		cfg.DrebinDir = dir
	}
}

// LoadConfigFile overlays the values set in a yaml file on cfg.
func LoadConfigFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "error opening config file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return errors.Wrapf(err, "error parsing config file %s", path)
	}
	return nil
}

func (c Config) FeatureDir() string {
	return filepath.Join(c.DrebinDir, io.FeatureVectorsDir)
}

func (c Config) LabelsFile() string {
	return filepath.Join(c.DrebinDir, io.FamilyFile)
}

func (c Config) AttributesPath() string {
	if filepath.IsAbs(c.AttributesFile) {
		return c.AttributesFile
	}
	return filepath.Join(c.OutputDir, c.AttributesFile)
}

// OutputPath returns where a generated file is written, with the compression extension.
func (c Config) OutputPath(name string) (string, error) {
	compression, err := io.ParseCompression(c.Compression)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.OutputDir, name+compression.Extension()), nil
}

func (c Config) Kind() (format.Kind, error) {
	return format.ParseKind(c.Format)
}

func (c Config) KeyNormalization(kind format.Kind) (model.Normalization, error) {
	switch c.Normalization {
	case "", "default":
		return kind.DefaultNormalization(), nil
	}
	return model.ParseNormalization(c.Normalization)
}
