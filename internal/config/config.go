// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// Environment variables read by Load.
const (
	EnvBlurKernel    = "XRAY_BLUR_KERNEL"
	EnvAdaptiveBlock = "XRAY_ADAPTIVE_BLOCK"
	EnvAdaptiveC     = "XRAY_ADAPTIVE_C"
	EnvClosingKernel = "XRAY_CLOSING_KERNEL"
	EnvHighlight     = "XRAY_HIGHLIGHT"
	EnvRetrieval     = "XRAY_RETRIEVAL"
	EnvApprox        = "XRAY_APPROX"
	EnvMorphBorder   = "XRAY_MORPH_BORDER"
	EnvOutputDir     = "XRAY_OUTPUT_DIR"
	EnvLogLevel      = "XRAY_LOG_LEVEL"
)

// DefaultOutputDir is where the run command writes its files.
const DefaultOutputDir = "output"

// Config holds everything the command needs to run.
type Config struct {
	Pipeline  pipeline.Config
	OutputDir string
	LogLevel  string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Pipeline:  pipeline.DefaultConfig(),
		OutputDir: DefaultOutputDir,
		LogLevel:  "info",
	}
}

// Load reads the given .env files (or ./.env when none are named) into the
// process environment and then builds a Config from it. A missing default
// .env file is not an error; a missing named file is.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default. Every value
// present must be valid; the resulting pipeline settings are validated as a
// whole.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	p := &cfg.Pipeline

	ints := []struct {
		key string
		dst *int
	}{
		{EnvBlurKernel, &p.BlurKernelSize},
		{EnvAdaptiveBlock, &p.AdaptiveBlockSize},
		{EnvAdaptiveC, &p.AdaptiveConstant},
		{EnvClosingKernel, &p.ClosingKernelSize},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := lookup(EnvHighlight); ok && v != "" {
		c, err := imaging.ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHighlight, err)
		}
		p.HighlightColor = c
	}
	if v, ok := lookup(EnvRetrieval); ok && v != "" {
		m, err := pipeline.ParseRetrievalMode(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvRetrieval, err)
		}
		p.Retrieval = m
	}
	if v, ok := lookup(EnvApprox); ok && v != "" {
		a, err := pipeline.ParseApproximation(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvApprox, err)
		}
		p.Approximation = a
	}
	if v, ok := lookup(EnvMorphBorder); ok && v != "" {
		b, err := pipeline.ParseMorphBorder(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMorphBorder, err)
		}
		p.MorphBorder = b
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
