package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Defaults used when a setting is absent or the configuration cannot be read.
const (
	DefaultImagePath   = "tables/table1.png"
	DefaultOutputDir   = "output"
	DefaultTessdataDir = "tessdata"
	DefaultModelSource = "fast"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the smoke test settings.
type Config struct {
	// ImagePath is the single input image.
	ImagePath string `env:"OCR_SMOKE_IMAGE" env-default:"tables/table1.png" env-description:"input image"`

	// OutputDir receives the visualization and JSON artifacts.
	OutputDir string `env:"OCR_SMOKE_OUTPUT_DIR" env-default:"output" env-description:"artifact directory"`

	// TessdataDir holds traineddata files. Empty uses the system install.
	TessdataDir string `env:"OCR_SMOKE_TESSDATA_DIR" env-default:"tessdata" env-description:"traineddata directory"`

	// ModelSource is fast, best, standard or an http(s) mirror URL.
	ModelSource string `env:"OCR_SMOKE_MODEL_SOURCE" env-default:"fast" env-description:"traineddata download source"`

	LogLevel  string `env:"OCR_SMOKE_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat string `env:"OCR_SMOKE_LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

// Default returns the built-in settings without consulting the environment.
func Default() *Config {
	return &Config{
		ImagePath:   DefaultImagePath,
		OutputDir:   DefaultOutputDir,
		TessdataDir: DefaultTessdataDir,
		ModelSource: DefaultModelSource,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// LoadOrDefault is Load that never leaves the caller without settings. On any
// error it returns Default() together with the error, so the caller can
// report the problem and still run.
func LoadOrDefault(envFile string) (*Config, error) {
	cfg, err := Load(envFile)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Load reads envFile (if it exists) into the environment, then fills a
// Config from environment variables. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.ImagePath = strings.TrimSpace(c.ImagePath)
	c.OutputDir = strings.TrimSpace(c.OutputDir)

	if c.ImagePath == "" {
		return fmt.Errorf("OCR_SMOKE_IMAGE must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OCR_SMOKE_OUTPUT_DIR must not be empty")
	}

	// Unknown formats fall back to text, the same way unknown levels fall back to info.
	switch f := strings.ToLower(strings.TrimSpace(c.LogFormat)); f {
	case "text", "json":
		c.LogFormat = f
	default:
		c.LogFormat = DefaultLogFormat
	}
	return nil
}

// Usage returns a description of every supported environment variable.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
