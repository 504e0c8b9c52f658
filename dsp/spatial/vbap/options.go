package vbap

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vbap/dsp/core"
)

// Mode selects pairwise (horizontal) or triplet (periphonic) panning.
type Mode int

const (
	// Mode2D pans between adjacent speaker pairs on the horizontal plane.
	Mode2D Mode = iota
	// Mode3D pans inside non-overlapping speaker triangles on the sphere.
	Mode3D
)

func (m Mode) String() string {
	switch m {
	case Mode2D:
		return "2D"
	case Mode3D:
		return "3D"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Fallback selects what the renderer does for directions no region covers.
type Fallback int

const (
	// FallbackSilence renders nothing for uncovered directions.
	FallbackSilence Fallback = iota
	// FallbackNearest uses the region closest to covering the direction,
	// with negative gains clamped to zero and the rest renormalized.
	FallbackNearest
)

func (f Fallback) String() string {
	switch f {
	case FallbackSilence:
		return "silence"
	case FallbackNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Fallback(%d)", int(f))
	}
}

const (
	defaultTargetPower    = 1.0
	defaultTolerance      = 1e-6
	defaultMinSeparation  = 1e-3 // radians
	defaultMinVolumeRatio = 1e-6
	defaultBlockSize      = 1024

	maxTolerance = 0.1
)

// Config holds topology and rendering settings.
type Config struct {
	Mode Mode

	// KeepSameElevation retains 3D triangles whose speakers all share one
	// elevation. They are discarded by default.
	KeepSameElevation bool

	// WrapAround closes the 2D speaker circle with a pair between the last
	// and the first speaker in azimuth order.
	WrapAround bool

	// TargetPower is the sum of squared gains of every rendered region.
	TargetPower float64

	// Tolerance is how far below zero a raw gain may be while its region
	// is still considered to contain the source.
	Tolerance float64

	// MinSeparation is the angle in radians below which two speakers are
	// treated as coincident; later duplicates are discarded.
	MinSeparation float64

	// MinVolumeRatio is the minimum |det| / perimeter of a 3D candidate.
	MinVolumeRatio float64

	Fallback Fallback

	// BlockSize presizes the block render scratch buffer.
	BlockSize int
}

// DefaultConfig returns the default configuration: 2D, wrap-around enabled,
// unit output power, silent fallback.
func DefaultConfig() Config {
	return Config{
		Mode:           Mode2D,
		WrapAround:     true,
		TargetPower:    defaultTargetPower,
		Tolerance:      defaultTolerance,
		MinSeparation:  defaultMinSeparation,
		MinVolumeRatio: defaultMinVolumeRatio,
		Fallback:       FallbackSilence,
		BlockSize:      defaultBlockSize,
	}
}

// Option mutates a Config and validates the new value.
type Option func(*Config) error

func applyOptions(cfg Config, opts []Option) (Config, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// WithMode selects 2D or 3D panning.
func WithMode(mode Mode) Option {
	return func(cfg *Config) error {
		if mode != Mode2D && mode != Mode3D {
			return fmt.Errorf("vbap mode must be 2D or 3D: %d", int(mode))
		}

		cfg.Mode = mode

		return nil
	}
}

// With3D is shorthand for WithMode(Mode3D) or WithMode(Mode2D).
func With3D(is3D bool) Option {
	if is3D {
		return WithMode(Mode3D)
	}

	return WithMode(Mode2D)
}

// WithKeepSameElevation keeps 3D triangles whose speakers share an elevation.
func WithKeepSameElevation(keep bool) Option {
	return func(cfg *Config) error {
		cfg.KeepSameElevation = keep
		return nil
	}
}

// WithWrapAround enables or disables the closing 2D pair. When disabled the
// pair spanning the widest azimuth gap is the one left out.
func WithWrapAround(wrap bool) Option {
	return func(cfg *Config) error {
		cfg.WrapAround = wrap
		return nil
	}
}

// WithTargetPower sets the sum of squared gains of rendered regions.
func WithTargetPower(power float64) Option {
	return func(cfg *Config) error {
		if power <= 0 || !core.IsFinite(power) {
			return fmt.Errorf("vbap target power must be > 0 and finite: %f", power)
		}

		cfg.TargetPower = power

		return nil
	}
}

// WithTolerance sets the negative gain tolerance for region membership.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) error {
		if tol < 0 || tol > maxTolerance || math.IsNaN(tol) {
			return fmt.Errorf("vbap tolerance must be in [0, %g]: %f", maxTolerance, tol)
		}

		cfg.Tolerance = tol

		return nil
	}
}

// WithMinSeparation sets the coincidence angle in radians.
func WithMinSeparation(rad float64) Option {
	return func(cfg *Config) error {
		if rad < 0 || rad >= math.Pi/2 || math.IsNaN(rad) {
			return fmt.Errorf("vbap min separation must be in [0, pi/2): %f", rad)
		}

		cfg.MinSeparation = rad

		return nil
	}
}

// WithMinVolumeRatio sets the degeneracy threshold for 3D candidates.
func WithMinVolumeRatio(ratio float64) Option {
	return func(cfg *Config) error {
		if ratio < 0 || !core.IsFinite(ratio) {
			return fmt.Errorf("vbap min volume ratio must be >= 0 and finite: %f", ratio)
		}

		cfg.MinVolumeRatio = ratio

		return nil
	}
}

// WithFallback selects the uncovered-direction policy.
func WithFallback(f Fallback) Option {
	return func(cfg *Config) error {
		if f != FallbackSilence && f != FallbackNearest {
			return fmt.Errorf("vbap fallback must be silence or nearest: %d", int(f))
		}

		cfg.Fallback = f

		return nil
	}
}

// WithBlockSize presizes the block render scratch buffer so blocks up to
// size frames render without allocating.
func WithBlockSize(size int) Option {
	return func(cfg *Config) error {
		if size <= 0 {
			return fmt.Errorf("vbap block size must be > 0: %d", size)
		}

		cfg.BlockSize = size

		return nil
	}
}
