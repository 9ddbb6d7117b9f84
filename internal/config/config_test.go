package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}

func TestDefault(t *testing.T) {
	p := Default("data")
	assert.Equal(t, filepath.Join("data", "train"), p.TrainImageDir)
	assert.Equal(t, filepath.Join("data", "train_gt.txt"), p.TrainLabels)
	assert.Equal(t, filepath.Join("data", "valid_gt.txt"), p.ValidLabels)
	assert.Equal(t, filepath.Join("data", "lbl2id_map.txt"), p.VocabPath)
	assert.Equal(t, 40, p.TopChars)
	assert.Equal(t, "eng", p.OCRLanguage)
	assert.False(t, p.Debug())
}

func TestParse_Defaults(t *testing.T) {
	p, err := Parse(nil, mapEnv(nil), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, ".", p.DataDir)
	assert.Equal(t, "lbl2id_map.txt", p.VocabPath)
	assert.Equal(t, "train", p.TrainImageDir)
	assert.Equal(t, 0, p.OCRSamples)
	assert.Empty(t, p.ChartDir)
}

func TestParse_EnvThenFlags(t *testing.T) {
	env := mapEnv(map[string]string{
		EnvDataDir:    "/srv/ds",
		EnvOCRSamples: "5",
		EnvOCRLang:    "deu",
		EnvLogLevel:   "DEBUG",
	})

	p, err := Parse(nil, env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "/srv/ds", p.DataDir)
	assert.Equal(t, filepath.Join("/srv/ds", "lbl2id_map.txt"), p.VocabPath)
	assert.Equal(t, 5, p.OCRSamples)
	assert.Equal(t, "deu", p.OCRLanguage)
	assert.True(t, p.Debug())

	p, err = Parse([]string{"-data-dir", "/other", "-ocr-samples", "2", "-vocab", "/tmp/v.txt", "-appearance", "-quiet"}, env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "/other", p.DataDir)
	assert.Equal(t, filepath.Join("/other", "train_gt.txt"), p.TrainLabels)
	assert.Equal(t, "/tmp/v.txt", p.VocabPath)
	assert.Equal(t, 2, p.OCRSamples)
	assert.True(t, p.Appearance)
	assert.True(t, p.Quiet)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown flag", []string{"-bogus"}, nil},
		{"stray argument", []string{"extra"}, nil},
		{"negative samples", []string{"-ocr-samples", "-1"}, nil},
		{"zero top chars", []string{"-top-chars", "0"}, nil},
		{"bad env int", nil, map[string]string{EnvOCRSamples: "many"}},
		{"empty data dir", []string{"-data-dir", ""}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, mapEnv(tt.env), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestEnvWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OCR_STATS_TEST_ONLY_KEY=from-file\n# comment\nOCR_STATS_OCR_LANG=fra\n"), 0o644))

	getenv, err := EnvWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", getenv("OCR_STATS_TEST_ONLY_KEY"))

	t.Setenv(EnvOCRLang, "spa")
	assert.Equal(t, "spa", getenv(EnvOCRLang), "process environment wins over .env")
}

func TestEnvWithFile_Missing(t *testing.T) {
	getenv, err := EnvWithFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Empty(t, getenv("OCR_STATS_TEST_ONLY_KEY"))
}
