package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"drebinprep/pkg"

	"github.com/spf13/cobra"
)

// options holds the values bound to the command line flags. Only the flags set
// explicitly override the configuration file and the environment.
type options struct {
	configFile string
	pkg.Config
}

func RootCommand() *cobra.Command {

	opts := &options{Config: pkg.DefaultConfig()}

	var cmd = &cobra.Command{
		Use:   "drebinprep [-c] [-t svm|bayes|arff] [-d drebinDir]",
		Short: "Preprocesses the DREBIN dataset into svm, bayes or arff files",
		Long: "Preprocesses DREBIN dataset which is expected to be in ./drebin, " +
			"otherwise select the right folder with the option --drebin",
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			_, err = pkg.Convert(cfg)
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "", "", "yaml configuration file")
	cmd.PersistentFlags().StringVarP(&opts.DrebinDir, "drebin", "d", opts.DrebinDir, "select the root of the drebin dataset")
	cmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", opts.OutputDir, "directory of the generated files")
	cmd.PersistentFlags().StringVarP(&opts.AttributesFile, "attributes", "a", opts.AttributesFile, "attributes file, relative to the output directory")
	cmd.PersistentFlags().StringVarP(&opts.Format, "type", "t", opts.Format, "select the type of file to be produced: svm, bayes or arff")
	cmd.PersistentFlags().StringVarP(&opts.Normalization, "normalize", "", opts.Normalization, "attribute key normalization: default, none or strip")
	cmd.PersistentFlags().StringVarP(&opts.Compression, "compress", "", opts.Compression, "output compression: none, gzip or zstd")

	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	cmd.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	cmd.Flags().BoolVarP(&opts.Collect, "collect", "c", false, "whether to perform attributes collection from the DREBIN dataset or not")

	cmd.AddCommand(CollectCommand(opts))
	cmd.AddCommand(SplitCommand(opts))
	cmd.AddCommand(StatsCommand(opts))

	return cmd
}

func CollectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collect [-d drebinDir]",
		Short: "Collects the distinct attributes of the dataset into the attributes file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return pkg.Collect(cfg)
		},
	}
}

func SplitCommand(opts *options) *cobra.Command {
	var cmd = &cobra.Command{
		Use:        "split [-i svmFile] [--train-size n] [--test-size n]",
		Short:      "Randomly samples train and test files from a generated libsvm file",
		Deprecated: "use subset.py from the libsvm tools instead",
		Args:       cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			_, _, err = pkg.Split(cfg)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Split.Input, "input", "i", "", "libsvm file to sample (default: the svm output file)")
	cmd.Flags().IntVarP(&opts.Split.TrainSize, "train-size", "", opts.Split.TrainSize, "number of training lines")
	cmd.Flags().IntVarP(&opts.Split.TestSize, "test-size", "", opts.Split.TestSize, "number of test lines")
	cmd.Flags().Int64VarP(&opts.Split.RndSeed, "random-seed", "x", opts.Split.RndSeed, "random seed")
	cmd.Flags().BoolVarP(&opts.Split.Disjoint, "disjoint", "", false, "draw train and test lines without overlap")

	return cmd
}

func StatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [-d drebinDir]",
		Short: "Reports the number of attributes per sample for each class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			_, err = pkg.Stats(cfg)
			return err
		},
	}
}

// resolve builds the configuration from defaults, environment, configuration file
// and the flags set on the command line, in increasing precedence.
func (o *options) resolve(cmd *cobra.Command) (pkg.Config, error) {
	cfg := pkg.DefaultConfig()
	pkg.LoadEnv(&cfg)
	if o.configFile != "" {
		if err := pkg.LoadConfigFile(o.configFile, &cfg); err != nil {
			return cfg, err
		}
	}

	overrides := map[string]func(){
		"drebin":      func() { cfg.DrebinDir = o.DrebinDir },
		"output-dir":  func() { cfg.OutputDir = o.OutputDir },
		"attributes":  func() { cfg.AttributesFile = o.AttributesFile },
		"type":        func() { cfg.Format = o.Format },
		"normalize":   func() { cfg.Normalization = o.Normalization },
		"compress":    func() { cfg.Compression = o.Compression },
		"collect":     func() { cfg.Collect = o.Collect },
		"input":       func() { cfg.Split.Input = o.Split.Input },
		"train-size":  func() { cfg.Split.TrainSize = o.Split.TrainSize },
		"test-size":   func() { cfg.Split.TestSize = o.Split.TestSize },
		"random-seed": func() { cfg.Split.RndSeed = o.Split.RndSeed },
		"disjoint":    func() { cfg.Split.Disjoint = o.Split.Disjoint },
	}
	for name, override := range overrides {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			override()
		}
	}
	return cfg, nil
}

var logLevel string
var logFormat string

func main() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return errors.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		return errors.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			if _, err := v.Int64(); err == nil {
				return v.String()
			}
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%v", i)
		}

	}
	log.Logger = log.Output(writer)

}
