package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/xray-contours/internal/logging"
)

// Stage names, in pipeline order. They key the buffers of a Result.
const (
	StageOriginal    = "original"
	StageBlurred     = "blurred"
	StageEqualized   = "equalized"
	StageThresholded = "thresholded"
	StageClosed      = "closed"
	StageOverlay     = "overlay"
)

// StageNames lists the grayscale stages of a Result in pipeline order.
var StageNames = []string{StageOriginal, StageBlurred, StageEqualized, StageThresholded, StageClosed}

// Config holds the fixed parameters of a pipeline.
type Config struct {
	// BlurKernelSize is the Gaussian smoothing kernel size (odd, > 0).
	BlurKernelSize int `json:"blur_kernel_size"`

	// AdaptiveBlockSize is the neighborhood size of the adaptive threshold
	// (odd, > 0).
	AdaptiveBlockSize int `json:"adaptive_block_size"`

	// AdaptiveConstant is subtracted from the local mean to form the
	// threshold.
	AdaptiveConstant int `json:"adaptive_constant"`

	// ClosingKernelSize is the size of the all-ones closing element
	// (odd, > 0).
	ClosingKernelSize int `json:"closing_kernel_size"`

	// HighlightColor is the stroke color of the overlay.
	HighlightColor RGB `json:"highlight_color"`

	Retrieval     RetrievalMode `json:"retrieval"`
	Approximation Approximation `json:"approximation"`
	MorphBorder   MorphBorder   `json:"morph_border"`
}

// DefaultConfig returns the standard radiograph settings: 5×5 blur, 11×11
// Gaussian adaptive threshold with C = 2, 3×3 closing and a red overlay.
func DefaultConfig() Config {
	return Config{
		BlurKernelSize:    5,
		AdaptiveBlockSize: 11,
		AdaptiveConstant:  2,
		ClosingKernelSize: 3,
		HighlightColor:    Red,
		Retrieval:         RetrieveAll,
		Approximation:     ApproxNone,
		MorphBorder:       BorderBackground,
	}
}

// Validate reports the first invalid parameter, wrapping ErrInvalidParameter.
func (c Config) Validate() error {
	if err := checkOddSize("blur kernel size", c.BlurKernelSize); err != nil {
		return err
	}
	if err := checkOddSize("adaptive block size", c.AdaptiveBlockSize); err != nil {
		return err
	}
	if err := checkOddSize("closing kernel size", c.ClosingKernelSize); err != nil {
		return err
	}
	switch c.Retrieval {
	case RetrieveAll, RetrieveExternal:
	default:
		return fmt.Errorf("%w: unknown retrieval mode %d", ErrInvalidParameter, int(c.Retrieval))
	}
	switch c.Approximation {
	case ApproxNone, ApproxSimple:
	default:
		return fmt.Errorf("%w: unknown approximation %d", ErrInvalidParameter, int(c.Approximation))
	}
	switch c.MorphBorder {
	case BorderBackground, BorderIgnore:
	default:
		return fmt.Errorf("%w: unknown morph border %d", ErrInvalidParameter, int(c.MorphBorder))
	}
	return nil
}

// Stage is one grayscale-to-grayscale step of the pipeline. Apply must not
// modify its input and must return a buffer of the same dimensions.
type Stage interface {
	Name() string
	Apply(src *PixelBuffer) (*PixelBuffer, error)
}

type stageFunc struct {
	name string
	fn   func(*PixelBuffer) (*PixelBuffer, error)
}

func (s stageFunc) Name() string { return s.name }

func (s stageFunc) Apply(src *PixelBuffer) (*PixelBuffer, error) { return s.fn(src) }

// Result aggregates everything a pipeline run produces.
type Result struct {
	Original    *PixelBuffer
	Blurred     *PixelBuffer
	Equalized   *PixelBuffer
	Thresholded *PixelBuffer
	Closed      *PixelBuffer
	Contours    []Contour
	Overlay     *ColorPixelBuffer
}

// Stage returns the grayscale buffer produced by the named stage.
func (r *Result) Stage(name string) (*PixelBuffer, bool) {
	switch name {
	case StageOriginal:
		return r.Original, true
	case StageBlurred:
		return r.Blurred, true
	case StageEqualized:
		return r.Equalized, true
	case StageThresholded:
		return r.Thresholded, true
	case StageClosed:
		return r.Closed, true
	default:
		return nil, false
	}
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger routes per-stage debug events to l.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// Pipeline runs the fixed sequence blur → equalize → adaptive threshold →
// close → trace → overlay. It holds no per-run state and is safe for
// concurrent use.
type Pipeline struct {
	cfg    Config
	stages []Stage
	log    zerolog.Logger
}

// New validates cfg and builds a pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logging.Component(p.log, "pipeline")

	p.stages = []Stage{
		stageFunc{StageBlurred, func(b *PixelBuffer) (*PixelBuffer, error) {
			return GaussianBlur(b, cfg.BlurKernelSize, 0)
		}},
		stageFunc{StageEqualized, EqualizeHistogram},
		stageFunc{StageThresholded, func(b *PixelBuffer) (*PixelBuffer, error) {
			return AdaptiveThreshold(b, cfg.AdaptiveBlockSize, cfg.AdaptiveConstant)
		}},
		stageFunc{StageClosed, func(b *PixelBuffer) (*PixelBuffer, error) {
			return Close(b, cfg.ClosingKernelSize, cfg.MorphBorder)
		}},
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run processes src and returns every intermediate buffer, the traced
// contours and the overlay. src is copied into Result.Original and is not
// modified. On error no partial Result is returned.
func (p *Pipeline) Run(src *PixelBuffer) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("stage %s: %w", StageOriginal, err)
	}

	start := time.Now()
	res := &Result{Original: src.Clone()}
	outputs := []**PixelBuffer{&res.Blurred, &res.Equalized, &res.Thresholded, &res.Closed}

	current := res.Original
	for i, stage := range p.stages {
		t := time.Now()
		out, err := stage.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if !out.SameSize(current) {
			return nil, fmt.Errorf("stage %s: %w: output %dx%d, input %dx%d", stage.Name(),
				ErrInvalidDimension, out.Width, out.Height, current.Width, current.Height)
		}
		*outputs[i] = out
		current = out
		p.log.Debug().Str("stage", stage.Name()).Dur("elapsed", time.Since(t)).Msg("stage complete")
	}

	contours, err := FindContours(res.Closed, p.cfg.Retrieval, p.cfg.Approximation)
	if err != nil {
		return nil, fmt.Errorf("stage contours: %w", err)
	}
	res.Contours = contours

	overlay, err := DrawContours(res.Original, contours, p.cfg.HighlightColor)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", StageOverlay, err)
	}
	res.Overlay = overlay

	p.log.Debug().
		Int("width", src.Width).
		Int("height", src.Height).
		Int("contours", len(contours)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline complete")
	return res, nil
}
