package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/midi"
	"github.com/jsphweid/midiclean/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func seeded(cfg model.Config, seed int64) model.Config {
	cfg.Seed = &seed
	return cfg
}

func mustNew(t *testing.T, cfg model.Config) *Pipeline {
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustProcess(t *testing.T, cfg model.Config, notes model.Notes) (model.Notes, Stats) {
	out, stats, err := mustNew(t, cfg).Process(notes, 480)
	if err != nil {
		t.Fatal(err)
	}
	return out, stats
}

func TestDedupeScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dedupe = true
	cfg.DedupeEpsilon = 2
	out, stats := mustProcess(t, cfg, model.Notes{
		{Pitch: 60, Channel: 0, Velocity: 80, StartTick: 100, DurationTicks: 50},
		{Pitch: 60, Channel: 0, Velocity: 100, StartTick: 102, DurationTicks: 50},
	})
	assert := assert.New(t)
	assert.Len(out, 1)
	assert.Equal(100, out[0].Velocity)
	assert.Equal(int64(102), out[0].StartTick)
	assert.Equal(1, stats.DuplicatesRemoved)
}

func TestQuantizeScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quantize = "1/16"
	out, _ := mustProcess(t, cfg, model.Notes{{Pitch: 60, Velocity: 80, StartTick: 135, DurationTicks: 60}})
	assert.Equal(t, int64(120), out[0].StartTick)
	assert.Equal(t, int64(60), out[0].DurationTicks)
}

func TestForceKeyScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceKey = "C major"
	out, _ := mustProcess(t, cfg, model.Notes{{Pitch: 66, Velocity: 80, StartTick: 0, DurationTicks: 60}})
	assert.Equal(t, 65, out[0].Pitch)
}

func TestStraightenRunsBeforeQuantize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Straighten = true
	cfg.Quantize = "1/16"
	out, _ := mustProcess(t, cfg, model.Notes{
		{Pitch: 60, Velocity: 80, StartTick: 118, DurationTicks: 60},
		{Pitch: 64, Velocity: 80, StartTick: 125, DurationTicks: 60},
		{Pitch: 67, Velocity: 80, StartTick: 179, DurationTicks: 60},
	})
	assert := assert.New(t)
	// 118 and 125 straighten to 122 then snap to 120; 179 is its own cluster
	assert.Equal(int64(120), out[0].StartTick)
	assert.Equal(int64(120), out[1].StartTick)
	assert.Equal(int64(120), out[2].StartTick)
}

func TestSwingOrder(t *testing.T) {
	notes := model.Notes{{Pitch: 60, Velocity: 80, StartTick: 121, DurationTicks: 60}}

	cfg := DefaultConfig()
	cfg.Quantize = "1/16"
	cfg.Swing = 0.5
	out, _ := mustProcess(t, cfg, notes)
	assert.Equal(t, int64(180), out[0].StartTick)

	cfg.SwingBeforeQuantize = true
	out, _ = mustProcess(t, cfg, notes)
	assert.Equal(t, int64(240), out[0].StartTick)
}

func sample() model.Notes {
	var res model.Notes
	for i := 0; i < 64; i++ {
		res = append(res, model.NoteEvent{
			Pitch:           40 + i%30,
			Velocity:        20 + i%100,
			ReleaseVelocity: 64,
			StartTick:       int64(i*53) % 3000,
			DurationTicks:   int64(40 + i%90),
			Channel:         i % 3,
		})
	}
	return res
}

func TestDisabledPipelineIsIdentityUpToOrder(t *testing.T) {
	notes := sample()
	out, stats := mustProcess(t, DefaultConfig(), notes)
	assert := assert.New(t)
	assert.ElementsMatch(notes, out)
	assert.Equal(len(notes), stats.NotesIn)
	assert.Equal(len(notes), stats.NotesOut)
	for i := 0; i+1 < len(out); i++ {
		assert.LessOrEqual(out[i].StartTick, out[i+1].StartTick)
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Humanize = true
	cfg.VelHuman = true
	a, _ := mustProcess(t, seeded(cfg, 9), sample())
	b, _ := mustProcess(t, seeded(cfg, 9), sample())
	c, _ := mustProcess(t, seeded(cfg, 10), sample())
	assert := assert.New(t)
	assert.Equal(a, b)
	assert.NotEqual(a, c)
}

func TestHumanizersUseIndependentStreams(t *testing.T) {
	timingOnly := DefaultConfig()
	timingOnly.Humanize = true
	both := timingOnly
	both.VelHuman = true

	a, _ := mustProcess(t, seeded(timingOnly, 3), sample())
	b, _ := mustProcess(t, seeded(both, 3), sample())
	assert := assert.New(t)
	for i := range a {
		assert.Equal(a[i].StartTick, b[i].StartTick)
		assert.Equal(a[i].Pitch, b[i].Pitch)
	}
}

func TestVelocityStagesNeverTouchTiming(t *testing.T) {
	timing := DefaultConfig()
	timing.Quantize = "1/8"
	timing.LegatoFix = true

	withVelocity := timing
	withVelocity.VelScale = 0.5
	withVelocity.VelClamp = &model.VelocityRange{Min: 30, Max: 90}
	withVelocity.VelHuman = true

	a, _ := mustProcess(t, seeded(timing, 1), sample())
	b, _ := mustProcess(t, seeded(withVelocity, 1), sample())
	assert := assert.New(t)
	assert.Len(b, len(a))
	for i := range a {
		assert.Equal(a[i].StartTick, b[i].StartTick)
		assert.Equal(a[i].DurationTicks, b[i].DurationTicks)
		assert.Equal(a[i].Pitch, b[i].Pitch)
		assert.True(b[i].Velocity >= 1 && b[i].Velocity <= 127)
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	notes := sample()
	before := model.Copy(notes)
	cfg := DefaultConfig()
	cfg.Quantize = "1/16"
	cfg.Straighten = true
	cfg.ForceKey = "Dminor"
	cfg.Dedupe = true
	cfg.LegatoFix = true
	cfg.VelScale = 1.2
	mustProcess(t, cfg, notes)
	assert.Equal(t, before, notes)
}

func TestInvalidConfiguration(t *testing.T) {
	cases := map[string]func(*model.Config){
		"zero division":   func(c *model.Config) { c.Quantize = "1/0" },
		"bad division":    func(c *model.Config) { c.Quantize = "sixteenth" },
		"clamp inverted":  func(c *model.Config) { c.VelClamp = &model.VelocityRange{Min: 100, Max: 20} },
		"clamp zero":      func(c *model.Config) { c.VelClamp = &model.VelocityRange{Min: 0, Max: 20} },
		"swing too big":   func(c *model.Config) { c.Swing = 1.5 },
		"negative scale":  func(c *model.Config) { c.VelScale = -1 },
		"unknown key":     func(c *model.Config) { c.ForceKey = "H major" },
		"negative window": func(c *model.Config) { c.StraightenWindow = -1 },
		"negative eps":    func(c *model.Config) { c.DedupeEpsilon = -3 },
		"huge humanize":   func(c *model.Config) { c.HumanizeTicks = math.MaxInt64/2 + 1 },
		"huge variance":   func(c *model.Config) { c.VelVariance = math.MaxInt/2 + 1 },
		"variance 128":    func(c *model.Config) { c.VelVariance = 128 },
		"nan scale":       func(c *model.Config) { c.VelScale = math.NaN() },
		"inf scale":       func(c *model.Config) { c.VelScale = math.Inf(1) },
		"nan swing":       func(c *model.Config) { c.Swing = math.NaN() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := New(cfg)
			assert.True(t, errors.Is(err, model.ErrInvalidConfiguration), "%v", err)
		})
	}
}

func TestGridFinerThanResolutionRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quantize = "1/128"
	_, _, err := mustNew(t, cfg).Process(sample(), 24)
	assert.True(t, errors.Is(err, model.ErrInvalidConfiguration))
}

func writeSong(t *testing.T, path string, tracks ...smf.Track) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		assert.NoError(t, s.Add(tr))
	}
	assert.NoError(t, midi.WriteMidiFile(s, path))
}

func sloppyTrack() smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(3, gomidi.NoteOn(0, 60, 90))
	tr.Add(0, gomidi.NoteOn(0, 60, 70))
	tr.Add(130, gomidi.NoteOn(0, 66, 100))
	tr.Add(300, gomidi.NoteOffVelocity(0, 60, 64))
	tr.Add(0, gomidi.NoteOffVelocity(0, 60, 64))
	tr.Add(10, gomidi.NoteOffVelocity(0, 66, 64))
	tr.Close(0)
	return tr
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mid")
	out := filepath.Join(dir, "out", "clean.mid")
	writeSong(t, in, sloppyTrack())

	cfg := DefaultConfig()
	cfg.Quantize = "1/16"
	cfg.ForceKey = "C"
	cfg.Dedupe = true

	res := mustNew(t, cfg).RunFile(Job{Input: in, Output: out})
	assert := assert.New(t)
	assert.NoError(res.Err)
	assert.Equal(3, res.NotesIn)
	assert.Equal(2, res.NotesOut)
	assert.Equal(480, res.TicksPerQuarter)

	s, err := midi.ReadMidiFile(out)
	assert.NoError(err)
	song, err := midi.ParseSong(s, false)
	assert.NoError(err)
	assert.Len(song.Notes, 2)
	assert.Equal(int64(0), song.Notes[0].StartTick)
	assert.Equal(90, song.Notes[0].Velocity)
	assert.Equal(int64(120), song.Notes[1].StartTick)
	assert.Equal(65, song.Notes[1].Pitch)
	assert.Len(song.Tracks[0].Events, 1)

	again := mustNew(t, cfg).RunFile(Job{Input: in, Output: out})
	assert.True(errors.Is(again.Err, model.ErrOutputExists))

	cfg.Overwrite = true
	assert.NoError(mustNew(t, cfg).RunFile(Job{Input: in, Output: out}).Err)
}

func TestRunFileDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mid")
	out := filepath.Join(dir, "clean.mid")
	writeSong(t, in, sloppyTrack())

	cfg := DefaultConfig()
	cfg.DryRun = true
	res := mustNew(t, cfg).RunFile(Job{Input: in, Output: out})
	assert := assert.New(t)
	assert.NoError(res.Err)
	assert.True(res.DryRun)
	_, err := os.Stat(out)
	assert.True(os.IsNotExist(err))
}

func TestRunBatchIsFailIsolated(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.mid")
	bad := filepath.Join(dir, "b.mid")
	good2 := filepath.Join(dir, "c.mid")
	writeSong(t, good1, sloppyTrack())
	assert.NoError(t, os.WriteFile(bad, []byte("MThd garbage"), 0666))
	writeSong(t, good2, sloppyTrack())

	var jobs []Job
	for _, in := range []string{good1, bad, good2} {
		jobs = append(jobs, Job{Input: in, Output: filepath.Join(dir, "out", filepath.Base(in))})
	}

	cfg := DefaultConfig()
	cfg.Dedupe = true
	results := RunBatch(cfg, jobs)
	assert := assert.New(t)
	assert.Len(results, 3)
	assert.NoError(results[0].Err)
	assert.True(errors.Is(results[1].Err, model.ErrMalformedInput), "%v", results[1].Err)
	assert.NoError(results[2].Err)
	assert.Len(Failed(results), 1)

	_, err := os.Stat(filepath.Join(dir, "out", "c.mid"))
	assert.NoError(err)
	_, err = os.Stat(filepath.Join(dir, "out", "b.mid"))
	assert.True(os.IsNotExist(err))
}

func TestLargestHumanizeAmountsProcess(t *testing.T) {
	cfg := seeded(DefaultConfig(), 9)
	cfg.Humanize = true
	cfg.HumanizeTicks = constants.MaxHumanizeTicks
	cfg.VelHuman = true
	cfg.VelVariance = constants.MaxVelocity
	out, _ := mustProcess(t, cfg, sample())
	for _, n := range out {
		assert.GreaterOrEqual(t, n.StartTick, int64(0))
		assert.True(t, n.Velocity >= constants.MinVelocity && n.Velocity <= constants.MaxVelocity)
	}
}
