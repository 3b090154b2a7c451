package cmd

import (
	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/pipeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type cleanFlags struct {
	cfg      model.Config
	velClamp []int
	seed     int64
}

func addCleanFlags(cmd *cobra.Command, f *cleanFlags) {
	f.cfg = pipeline.DefaultConfig()
	flags := cmd.Flags()

	flags.StringVar(&f.cfg.Quantize, "quantize", "", "grid-lock onsets to a division, e.g. 1/16 or 1/32")
	flags.BoolVar(&f.cfg.Straighten, "straighten", false, "align staggered chord onsets to their mean")
	flags.Float64Var(&f.cfg.Swing, "swing", 0, "delay off-beats by this fraction of the swing grid (0-1)")
	flags.BoolVar(&f.cfg.Humanize, "humanize", false, "inject micro-timing variance")

	flags.Float64Var(&f.cfg.VelScale, "vel-scale", f.cfg.VelScale, "scale velocities by a factor")
	flags.IntSliceVar(&f.velClamp, "vel-clamp", nil, "clamp velocities to MIN,MAX")
	flags.BoolVar(&f.cfg.VelHuman, "vel-human", false, "randomize velocities")

	flags.StringVar(&f.cfg.ForceKey, "force-key", "", "constrain notes to a scale, e.g. Dminor or F#dorian")
	flags.BoolVar(&f.cfg.Dedupe, "dedupe", false, "remove stacked duplicate notes")
	flags.BoolVar(&f.cfg.LegatoFix, "legato-fix", false, "trim overlapping notes of the same pitch")

	flags.BoolVar(&f.cfg.DryRun, "dry-run", false, "run everything but do not write output")
	flags.BoolVar(&f.cfg.Overwrite, "overwrite", false, "replace an existing output file")
	flags.BoolVar(&f.cfg.AllowUnpaired, "allow-unpaired", false, "drop unmatched note on/off messages instead of failing")

	flags.Int64Var(&f.seed, "seed", 0, "seed for humanization (default: $MIDICLEAN_SEED or random)")
	flags.Int64Var(&f.cfg.StraightenWindow, "straighten-window", f.cfg.StraightenWindow, "max onset gap in ticks within a chord")
	flags.Int64Var(&f.cfg.HumanizeTicks, "humanize-ticks", f.cfg.HumanizeTicks, "max timing offset in ticks")
	flags.IntVar(&f.cfg.VelVariance, "vel-variance", f.cfg.VelVariance, "max velocity offset")
	flags.Int64Var(&f.cfg.DedupeEpsilon, "dedupe-epsilon", 0, "onsets this many ticks apart still count as duplicates")
	flags.StringVar(&f.cfg.SwingGrid, "swing-grid", f.cfg.SwingGrid, "division swing works on")
	flags.BoolVar(&f.cfg.SwingBeforeQuantize, "swing-before-quantize", false, "apply swing before grid quantization")
}

func (f *cleanFlags) config(cmd *cobra.Command) (model.Config, error) {
	cfg := f.cfg
	switch len(f.velClamp) {
	case 0:
	case 2:
		cfg.VelClamp = &model.VelocityRange{Min: f.velClamp[0], Max: f.velClamp[1]}
	default:
		return cfg, errors.Wrap(model.ErrInvalidConfiguration, "--vel-clamp takes exactly MIN,MAX")
	}

	if cmd.Flags().Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	} else if seed, ok := constants.GetSeed(); ok {
		cfg.Seed = &seed
	}
	return cfg, pipeline.Validate(cfg)
}
