// Package config builds the parameters of an analysis run from command-line
// flags, environment variables and an optional .env file.
//
// Precedence is flag, then process environment, then .env file, then the
// built-in default. The dataset layout under the data directory is fixed:
//
//	<data>/train/          training images
//	<data>/train_gt.txt    training labels
//	<data>/valid_gt.txt    validation labels
//	<data>/lbl2id_map.txt  generated vocabulary
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDataDir    = "OCR_STATS_DATA_DIR"
	EnvVocab      = "OCR_STATS_VOCAB"
	EnvChartDir   = "OCR_STATS_CHART_DIR"
	EnvOCRSamples = "OCR_STATS_OCR_SAMPLES"
	EnvOCRLang    = "OCR_STATS_OCR_LANG"
	EnvTessdata   = "OCR_STATS_TESSDATA"
	EnvLogLevel   = "OCR_STATS_LOG_LEVEL"
	EnvEnvFile    = "OCR_STATS_ENV_FILE"
)

// Fixed names inside the data directory.
const (
	TrainImageDirName = "train"
	TrainLabelsName   = "train_gt.txt"
	ValidLabelsName   = "valid_gt.txt"
	VocabName         = "lbl2id_map.txt"
)

// Params holds everything an analysis run needs.
type Params struct {
	DataDir       string
	TrainImageDir string
	TrainLabels   string
	ValidLabels   string
	VocabPath     string

	// ChartDir receives PNG charts; empty disables charts.
	ChartDir string
	TopChars int

	Appearance        bool
	SkipInvalidImages bool
	Verbose           bool
	Quiet             bool

	// OCRSamples is the number of training records to run through
	// Tesseract; 0 disables the OCR baseline.
	OCRSamples    int
	OCRLanguage   string
	OCRMinHeight  int
	OCRIgnoreCase bool
	OCRTrim       bool
	TessdataDir   string

	LogLevel string
}

// Default returns the parameters for a dataset rooted at dataDir.
func Default(dataDir string) Params {
	p := Params{
		DataDir:      dataDir,
		TopChars:     40,
		OCRLanguage:  "eng",
		OCRMinHeight: 64,
		LogLevel:     "info",
	}
	p.derivePaths()
	return p
}

func (p *Params) derivePaths() {
	p.TrainImageDir = filepath.Join(p.DataDir, TrainImageDirName)
	p.TrainLabels = filepath.Join(p.DataDir, TrainLabelsName)
	p.ValidLabels = filepath.Join(p.DataDir, ValidLabelsName)
	if p.VocabPath == "" {
		p.VocabPath = filepath.Join(p.DataDir, VocabName)
	}
}

// Debug reports whether debug logging is enabled.
func (p Params) Debug() bool {
	return strings.EqualFold(p.LogLevel, "debug")
}

// Validate checks values that flags cannot constrain.
func (p Params) Validate() error {
	if p.DataDir == "" {
		return errors.New("data directory must not be empty")
	}
	if p.OCRSamples < 0 {
		return fmt.Errorf("ocr-samples must be >= 0, got %d", p.OCRSamples)
	}
	if p.TopChars < 1 {
		return fmt.Errorf("top-chars must be >= 1, got %d", p.TopChars)
	}
	if p.OCRMinHeight < 0 {
		return fmt.Errorf("ocr-min-height must be >= 0, got %d", p.OCRMinHeight)
	}
	return nil
}

// Getenv looks up an environment variable.
type Getenv func(key string) string

// EnvWithFile returns a Getenv that prefers the process environment and
// falls back to the variables in the .env file at path. A missing file is
// not an error.
func EnvWithFile(path string) (Getenv, error) {
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		fileEnv = map[string]string{}
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}, nil
}

// Load parses args (without the program name) using the process
// environment and the .env file named by OCR_STATS_ENV_FILE (default ".env").
func Load(args []string, output io.Writer) (*Params, error) {
	envFile := os.Getenv(EnvEnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	getenv, err := EnvWithFile(envFile)
	if err != nil {
		return nil, err
	}
	return Parse(args, getenv, output)
}

// Parse builds Params from args with defaults taken from getenv.
// Usage and parse errors are written to output.
func Parse(args []string, getenv Getenv, output io.Writer) (*Params, error) {
	def := Default(envOr(getenv, EnvDataDir, "."))

	ocrSamples, err := envInt(getenv, EnvOCRSamples, 0)
	if err != nil {
		return nil, err
	}

	p := def
	p.VocabPath = ""

	flags := flag.NewFlagSet("ocr-dataset-stats", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&p.DataDir, "data-dir", def.DataDir, "dataset root directory (env "+EnvDataDir+")")
	flags.StringVar(&p.VocabPath, "vocab", getenv(EnvVocab), "vocabulary output file (default <data-dir>/"+VocabName+", env "+EnvVocab+")")
	flags.StringVar(&p.ChartDir, "chart-dir", getenv(EnvChartDir), "write PNG charts to this directory (env "+EnvChartDir+")")
	flags.IntVar(&p.TopChars, "top-chars", def.TopChars, "characters shown in the frequency chart")
	flags.BoolVar(&p.Appearance, "appearance", false, "measure luminance, contrast and sharpness of each training image")
	flags.BoolVar(&p.SkipInvalidImages, "skip-invalid-images", false, "report undecodable images instead of stopping")
	flags.BoolVar(&p.Verbose, "verbose", false, "print the code point of every vocabulary character")
	flags.BoolVar(&p.Quiet, "quiet", false, "do not show a progress bar")
	flags.IntVar(&p.OCRSamples, "ocr-samples", ocrSamples, "run a Tesseract baseline on this many training images (env "+EnvOCRSamples+")")
	flags.StringVar(&p.OCRLanguage, "ocr-lang", envOr(getenv, EnvOCRLang, def.OCRLanguage), "Tesseract language (env "+EnvOCRLang+")")
	flags.IntVar(&p.OCRMinHeight, "ocr-min-height", def.OCRMinHeight, "upscale images shorter than this before OCR")
	flags.BoolVar(&p.OCRIgnoreCase, "ocr-ignore-case", false, "compare OCR output case-insensitively")
	flags.BoolVar(&p.OCRTrim, "ocr-trim", false, "crop background margins before OCR")
	flags.StringVar(&p.TessdataDir, "tessdata", getenv(EnvTessdata), "directory holding *.traineddata (env "+EnvTessdata+")")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	p.LogLevel = envOr(getenv, EnvLogLevel, def.LogLevel)
	p.derivePaths()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func envOr(getenv Getenv, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv Getenv, key string, fallback int) (int, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
