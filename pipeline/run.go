package pipeline

import (
	"io"

	"github.com/google/uuid"
	"github.com/jsphweid/midiclean/file"
	"github.com/jsphweid/midiclean/midi"
	"github.com/jsphweid/midiclean/model"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Job struct {
	Input  string
	Output string
}

type Result struct {
	Job
	Stats
	TicksPerQuarter int
	DryRun          bool
	Err             error
}

// Clean parses a file, processes its notes and rebuilds it. Nothing is written.
func (p *Pipeline) Clean(s *smf.SMF) (*smf.SMF, *midi.Song, Stats, error) {
	song, err := midi.ParseSong(s, p.cfg.AllowUnpaired)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	notes, stats, err := p.Process(song.Notes, song.TicksPerQuarter)
	if err != nil {
		return nil, song, stats, err
	}
	out, err := midi.Build(song, notes)
	if err != nil {
		return nil, song, stats, err
	}
	return out, song, stats, nil
}

// CleanReader is Clean over raw file bytes.
func (p *Pipeline) CleanReader(r io.Reader) (*smf.SMF, *midi.Song, Stats, error) {
	s, err := midi.ReadMidi(r)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	return p.Clean(s)
}

// RunFile cleans job.Input into job.Output. On dry run the output is never
// written; otherwise an existing output is only replaced with Overwrite set.
func (p *Pipeline) RunFile(job Job) Result {
	res := Result{Job: job, DryRun: p.cfg.DryRun}
	log := p.log.WithFields(logrus.Fields{"input": job.Input, "output": job.Output})

	if !p.cfg.DryRun {
		if err := file.CheckWritable(job.Output, p.cfg.Overwrite); err != nil {
			res.Err = err
			return res
		}
	}

	s, err := midi.ReadMidiFile(job.Input)
	if err != nil {
		res.Err = err
		return res
	}

	out, song, stats, err := p.WithLogger(log).Clean(s)
	res.Stats = stats
	if song != nil {
		res.TicksPerQuarter = song.TicksPerQuarter
	}
	if err != nil {
		res.Err = err
		return res
	}

	log = log.WithFields(logrus.Fields{
		"notes_in":   stats.NotesIn,
		"notes_out":  stats.NotesOut,
		"duplicates": stats.DuplicatesRemoved,
		"overlaps":   stats.OverlapsTrimmed,
	})
	if p.cfg.DryRun {
		log.Info("dry run, no file written")
		return res
	}
	if err := midi.WriteMidiFile(out, job.Output); err != nil {
		res.Err = err
		return res
	}
	log.Info("saved")
	return res
}

// RunBatch cleans every job with a fresh Pipeline built from cfg. A failing
// file is logged and skipped, the rest of the batch still runs. With a seed
// set every file gets the same random streams, so results do not depend on
// batch order.
func RunBatch(cfg model.Config, jobs []Job) []Result {
	batchId := uuid.New().String()
	results := make([]Result, 0, len(jobs))
	for i, job := range jobs {
		log := logrus.WithFields(logrus.Fields{"batch": batchId, "file": i + 1, "of": len(jobs)})
		p, err := New(cfg)
		if err != nil {
			results = append(results, Result{Job: job, DryRun: cfg.DryRun, Err: err})
			log.WithError(err).Error("invalid configuration")
			continue
		}
		res := p.WithLogger(log).RunFile(job)
		if res.Err != nil {
			log.WithError(res.Err).WithField("input", job.Input).Error("skipping file")
		}
		results = append(results, res)
	}
	return results
}

func Failed(results []Result) []Result {
	var res []Result
	for _, r := range results {
		if r.Err != nil {
			res = append(res, r)
		}
	}
	return res
}
