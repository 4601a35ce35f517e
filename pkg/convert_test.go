package pkg

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"drebinprep/pkg/io"
	"drebinprep/pkg/model"
)

// writeDataset lays out a drebin dataset in a temporary directory and returns a config
// writing its outputs next to it.
func writeDataset(t *testing.T, samples map[string]string, families string) Config {
	root := t.TempDir()
	drebin := filepath.Join(root, "drebin")
	require.NoError(t, os.MkdirAll(filepath.Join(drebin, io.FeatureVectorsDir), 0o755))
	for id, content := range samples {
		require.NoError(t, os.WriteFile(filepath.Join(drebin, io.FeatureVectorsDir, id), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(drebin, io.FamilyFile), []byte(families), 0o644))

	cfg := DefaultConfig()
	cfg.DrebinDir = drebin
	cfg.OutputDir = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	return cfg
}

func writeAttributes(t *testing.T, cfg Config, content string) {
	require.NoError(t, os.WriteFile(cfg.AttributesPath(), []byte(content), 0o644))
}

func readOutput(t *testing.T, path string) string {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

var testSamples = map[string]string{
	"abc123": "perm::android.permission.INTERNET\napi_call::getDeviceId\nperm::android.permission.SEND_SMS\n",
	"def456": "perm::android.permission.INTERNET\nactivity::.MainActivity\n",
	"ghi789": "activity::.MainActivity\nperm::android.permission.INTERNET\nactivity::.MainActivity\n",
}

const testFamilies = "sha256,family\nabc123,FakeInstaller\nzzz000,Plankton\n"

func TestConvert_RoundTrip(t *testing.T) {
	cfg := writeDataset(t, map[string]string{"abc123": "perm::CAMERA\n"}, "abc123,somefamily\n")
	writeAttributes(t, cfg, "perm::INTERNET\nperm::CAMERA\n")

	output, err := Convert(cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.OutputDir, "android_malwares.libsvm"), output)
	require.Equal(t, "1 2:1\n", readOutput(t, output))
}

func TestConvert_SVM(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)

	output, err := Convert(cfg)
	require.NoError(t, err)

	// attributes are collected in sorted order and indexed from 1
	attributes, err := io.ReadLinesFile(cfg.AttributesPath())
	require.NoError(t, err)
	require.Equal(t, []string{
		"activity::.MainActivity",
		"api_call::getDeviceId",
		"perm::android.permission.INTERNET",
		"perm::android.permission.SEND_SMS",
	}, attributes)

	require.Equal(t, "1 2:1 3:1 4:1\n-1 1:1 3:1\n-1 1:1 3:1\n", readOutput(t, output))
}

func TestConvert_Deterministic(t *testing.T) {
	for _, kind := range []string{"svm", "bayes", "arff"} {
		t.Run(kind, func(t *testing.T) {
			cfg := writeDataset(t, testSamples, testFamilies)
			cfg.Format = kind

			first, err := Convert(cfg)
			require.NoError(t, err)
			firstContent := readOutput(t, first)

			second, err := Convert(cfg)
			require.NoError(t, err)
			require.Equal(t, firstContent, readOutput(t, second))
		})
	}
}

func TestConvert_IndexesAscendingAndValid(t *testing.T) {
	cfg := writeDataset(t, map[string]string{
		"s1": "c\nb\na\nb\n",
		"s2": "b\nb\n",
	}, "")
	writeAttributes(t, cfg, "c\na\nb\n")

	output, err := Convert(cfg)
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(readOutput(t, output)), "\n") {
		fields := strings.Fields(line)
		require.Equal(t, "-1", fields[0])
		previous := 0
		for _, field := range fields[1:] {
			index, err := strconv.Atoi(strings.TrimSuffix(field, ":1"))
			require.NoError(t, err)
			require.Greater(t, index, previous)
			require.LessOrEqual(t, index, 3)
			previous = index
		}
	}
	require.Equal(t, "-1 1:1 2:1 3:1\n-1 3:1\n", readOutput(t, output))
}

func TestConvert_BayesNormalization(t *testing.T) {
	cfg := writeDataset(t, map[string]string{
		"abc123": "perm:CAMERA\nperm::INTERNET\n",
		"def456": "perm::CAMERA\n",
	}, "abc123,somefamily\n")
	writeAttributes(t, cfg, "perm::CAMERA\nperm:CAMERA\nperm::INTERNET\n")
	cfg.Format = "bayes"

	output, err := Convert(cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.OutputDir, "android_malwares.bayes"), output)
	require.Equal(t, "1\t 1 2\n-1\t 1\n", readOutput(t, output))

	// the same policy can be disabled explicitly
	cfg.Normalization = "none"
	output, err = Convert(cfg)
	require.NoError(t, err)
	require.Equal(t, "1\t 2 3\n-1\t 1\n", readOutput(t, output))
}

func TestConvert_CarriageReturnIsPartOfAttribute(t *testing.T) {
	cfg := writeDataset(t, map[string]string{
		"abc123": "perm::X\r\n",
		"def456": "perm::X\n",
	}, "abc123,family\n")
	writeAttributes(t, cfg, "perm::X\r\nperm::X\n")

	dict, err := LoadDictionary(cfg.AttributesPath(), 1, model.NormalizeNone)
	require.NoError(t, err)
	require.Equal(t, 2, dict.Size())

	output, err := Convert(cfg)
	require.NoError(t, err)
	require.Equal(t, "1 1:1\n-1 2:1\n", readOutput(t, output))
}

func TestConvert_ARFFSchema(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)
	cfg.Format = "arff"

	output, err := Convert(cfg)
	require.NoError(t, err)

	attributes, err := io.ReadLinesFile(cfg.AttributesPath())
	require.NoError(t, err)

	numeric, rows := 0, []string{}
	for _, line := range strings.Split(readOutput(t, output), "\n") {
		switch {
		case strings.HasPrefix(line, "@ATTRIBUTE") && strings.HasSuffix(line, "NUMERIC"):
			numeric++
		case strings.HasPrefix(line, "{"):
			rows = append(rows, line)
		}
	}
	require.Equal(t, len(attributes), numeric)
	require.Equal(t, []string{
		"{1 1, 2 1, 3 1, 4 Malware}",
		"{0 1, 2 1, 4 NotMalware}",
		"{0 1, 2 1, 4 NotMalware}",
	}, rows)
}

func TestConvert_Labels(t *testing.T) {
	cfg := writeDataset(t, map[string]string{
		"abc123":  "a\n",
		"abc1234": "a\n",
		"ABC123":  "a\n",
	}, "abc123,family\n")

	output, err := Convert(cfg)
	require.NoError(t, err)
	// ABC123 < abc123 < abc1234
	require.Equal(t, "-1 1:1\n1 1:1\n-1 1:1\n", readOutput(t, output))
}

func TestConvert_UnknownAttribute(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)
	writeAttributes(t, cfg, "perm::android.permission.INTERNET\n")

	_, err := Convert(cfg)
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrUnknownAttribute))
}

func TestConvert_ForceCollect(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)
	writeAttributes(t, cfg, "perm::android.permission.INTERNET\n")
	cfg.Collect = true

	_, err := Convert(cfg)
	require.NoError(t, err)
	attributes, err := io.ReadLinesFile(cfg.AttributesPath())
	require.NoError(t, err)
	require.Equal(t, 4, len(attributes))
}

func TestConvert_MissingFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrebinDir = filepath.Join(t.TempDir(), "missing")
	cfg.OutputDir = t.TempDir()

	_, err := Convert(cfg)
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))

	cfg = writeDataset(t, testSamples, testFamilies)
	require.NoError(t, os.Remove(cfg.LabelsFile()))
	_, err = Convert(cfg)
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConvert_Compressed(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)
	cfg.Compression = "zstd"

	output, err := Convert(cfg)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(output, ".libsvm.zst"))

	lines, err := io.ReadLinesFile(output)
	require.NoError(t, err)
	require.Equal(t, []string{"1 2:1 3:1 4:1", "-1 1:1 3:1", "-1 1:1 3:1"}, lines)
}

func TestConvert_InvalidConfig(t *testing.T) {
	cfg := writeDataset(t, testSamples, testFamilies)
	cfg.Format = "csv"
	_, err := Convert(cfg)
	require.Error(t, err)

	cfg.Format = "svm"
	cfg.Normalization = "lowercase"
	_, err = Convert(cfg)
	require.Error(t, err)
}
