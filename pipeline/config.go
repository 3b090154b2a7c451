package pipeline

import (
	"math"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/harmony"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/quantize"
	"github.com/pkg/errors"
)

// DefaultConfig has every stage disabled and the tuning knobs at their
// defaults.
func DefaultConfig() model.Config {
	return model.Config{
		VelScale:         1.0,
		StraightenWindow: constants.DefaultStraightenWindow,
		HumanizeTicks:    constants.DefaultHumanizeTicks,
		VelVariance:      constants.DefaultVelocityVariance,
		SwingGrid:        constants.DefaultSwingGrid,
	}
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(model.ErrInvalidConfiguration, format, args...)
}

// Validate checks everything that does not depend on the file's resolution.
// Grid sizes are checked once the resolution is known, still before any
// transform runs.
func Validate(cfg model.Config) error {
	if cfg.Quantize != "" {
		if _, _, err := quantize.ParseDivision(cfg.Quantize); err != nil {
			return err
		}
	}
	if !finite(cfg.Swing) || cfg.Swing < 0 || cfg.Swing > 1 {
		return invalid("swing %v must be within [0, 1]", cfg.Swing)
	}
	if cfg.Swing > 0 && cfg.SwingGrid != "" {
		if _, _, err := quantize.ParseDivision(cfg.SwingGrid); err != nil {
			return err
		}
	}
	if !finite(cfg.VelScale) || cfg.VelScale < 0 {
		return invalid("velocity scale %v must be a non-negative number", cfg.VelScale)
	}
	if c := cfg.VelClamp; c != nil {
		if c.Min < constants.MinVelocity || c.Max > constants.MaxVelocity {
			return invalid("velocity clamp %d-%d must be within %d-%d",
				c.Min, c.Max, constants.MinVelocity, constants.MaxVelocity)
		}
		if c.Min > c.Max {
			return invalid("velocity clamp min %d is greater than max %d", c.Min, c.Max)
		}
	}
	if cfg.ForceKey != "" {
		if _, err := harmony.ParseKey(cfg.ForceKey); err != nil {
			return err
		}
	}
	switch {
	case cfg.StraightenWindow < 0:
		return invalid("straighten window %d must not be negative", cfg.StraightenWindow)
	case cfg.HumanizeTicks < 0:
		return invalid("humanize amount %d must not be negative", cfg.HumanizeTicks)
	case cfg.HumanizeTicks > constants.MaxHumanizeTicks:
		return invalid("humanize amount %d exceeds %d", cfg.HumanizeTicks, constants.MaxHumanizeTicks)
	case cfg.VelVariance < 0:
		return invalid("velocity variance %d must not be negative", cfg.VelVariance)
	case cfg.VelVariance > constants.MaxVelocity:
		return invalid("velocity variance %d exceeds %d", cfg.VelVariance, constants.MaxVelocity)
	case cfg.DedupeEpsilon < 0:
		return invalid("dedupe epsilon %d must not be negative", cfg.DedupeEpsilon)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
