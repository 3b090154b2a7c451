// Package pipeline runs the configured transforms in their fixed order:
//
//	straighten, quantize, swing, humanize timing, force key, dedupe,
//	legato fix, scale velocity, clamp velocity, humanize velocity
//
// Each disabled stage passes notes through unchanged. Timing stages only
// touch onsets and releases, the key stage only pitch, and velocity stages
// only velocity.
package pipeline

import (
	"sort"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/dedupe"
	"github.com/jsphweid/midiclean/harmony"
	"github.com/jsphweid/midiclean/humanize"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/quantize"
	"github.com/jsphweid/midiclean/straighten"
	"github.com/jsphweid/midiclean/velocity"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	NotesIn           int
	NotesOut          int
	DuplicatesRemoved int
	OverlapsTrimmed   int
}

type stage struct {
	name    string
	enabled bool
	run     func(model.Notes) model.Notes
}

// Pipeline is one configured run. Its random sources are stateful, so a
// Pipeline must not be shared between goroutines.
type Pipeline struct {
	cfg         model.Config
	key         *model.KeyConstraint
	timingSrc   humanize.Source
	velocitySrc humanize.Source
	log         *logrus.Entry
}

func New(cfg model.Config) (*Pipeline, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, log: logrus.NewEntry(logrus.StandardLogger())}
	if cfg.ForceKey != "" {
		k, err := harmony.ParseKey(cfg.ForceKey)
		if err != nil {
			return nil, err
		}
		p.key = &k
	}

	// velocity draws from its own stream so enabling one humanizer never
	// changes what the other produces
	if cfg.Seed != nil {
		p.timingSrc = humanize.NewSource(*cfg.Seed)
		p.velocitySrc = humanize.NewSource(*cfg.Seed + 1)
	} else {
		p.timingSrc = humanize.NewEntropySource()
		p.velocitySrc = humanize.NewEntropySource()
	}
	return p, nil
}

// WithLogger returns a copy logging to log. The copy shares the random
// sources with p.
func (p *Pipeline) WithLogger(log *logrus.Entry) *Pipeline {
	cp := *p
	cp.log = log
	return &cp
}

func (p *Pipeline) Config() model.Config {
	return p.cfg
}

func (p *Pipeline) grids(ticksPerQuarter int) (grid, swingGrid int64, err error) {
	if p.cfg.Quantize != "" {
		if grid, err = quantize.GridTicks(ticksPerQuarter, p.cfg.Quantize); err != nil {
			return 0, 0, err
		}
	}
	if p.cfg.Swing > 0 {
		division := p.cfg.SwingGrid
		if division == "" {
			division = constants.DefaultSwingGrid
		}
		if swingGrid, err = quantize.GridTicks(ticksPerQuarter, division); err != nil {
			return 0, 0, err
		}
	}
	return grid, swingGrid, nil
}

// Process runs every enabled stage over notes and returns the result sorted
// by onset, stable for equal onsets. The input slice is never modified.
func (p *Pipeline) Process(notes model.Notes, ticksPerQuarter int) (model.Notes, Stats, error) {
	stats := Stats{NotesIn: len(notes)}
	grid, swingGrid, err := p.grids(ticksPerQuarter)
	if err != nil {
		return nil, stats, err
	}

	cfg := p.cfg
	scale := cfg.VelScale
	if scale == 0 {
		scale = 1
	}

	quantizeStage := stage{"quantize", cfg.Quantize != "", func(n model.Notes) model.Notes {
		return quantize.Quantize(n, grid)
	}}
	swingStage := stage{"swing", cfg.Swing > 0, func(n model.Notes) model.Notes {
		return quantize.Swing(n, swingGrid, cfg.Swing)
	}}
	timing := []stage{quantizeStage, swingStage}
	if cfg.SwingBeforeQuantize {
		timing = []stage{swingStage, quantizeStage}
	}

	stages := []stage{
		{"straighten", cfg.Straighten, func(n model.Notes) model.Notes {
			return straighten.Straighten(n, cfg.StraightenWindow)
		}},
	}
	stages = append(stages, timing...)
	stages = append(stages,
		stage{"humanize-timing", cfg.Humanize, func(n model.Notes) model.Notes {
			return humanize.Timing(n, cfg.HumanizeTicks, p.timingSrc)
		}},
		stage{"force-key", p.key != nil, func(n model.Notes) model.Notes {
			return harmony.Force(n, *p.key)
		}},
		stage{"dedupe", cfg.Dedupe, func(n model.Notes) model.Notes {
			res, removed := dedupe.Dedupe(n, cfg.DedupeEpsilon)
			stats.DuplicatesRemoved = removed
			return res
		}},
		stage{"legato-fix", cfg.LegatoFix, func(n model.Notes) model.Notes {
			res, trimmed := dedupe.LegatoFix(n)
			stats.OverlapsTrimmed = trimmed
			return res
		}},
		stage{"scale-velocity", scale != 1, func(n model.Notes) model.Notes {
			return velocity.Scale(n, scale)
		}},
		stage{"clamp-velocity", cfg.VelClamp != nil, func(n model.Notes) model.Notes {
			return velocity.Clamp(n, cfg.VelClamp.Min, cfg.VelClamp.Max)
		}},
		stage{"humanize-velocity", cfg.VelHuman, func(n model.Notes) model.Notes {
			return velocity.Humanize(n, cfg.VelVariance, p.velocitySrc)
		}},
	)

	res := model.Copy(notes)
	for _, s := range stages {
		if !s.enabled {
			continue
		}
		res = s.run(res)
		p.log.WithFields(logrus.Fields{"stage": s.name, "notes": len(res)}).Debug("stage done")
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartTick < res[j].StartTick
	})
	stats.NotesOut = len(res)
	return res, stats, nil
}
