package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/midiclean/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading midi file")
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = errors.Wrapf(model.ErrMalformedInput, "Error parsing midi file... %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrapf(model.ErrMalformedInput, "Error parsing midi file... %s", err.Error())
	}
	return res, nil
}

// WriteMidiFile writes to a temp file next to path and renames it into place,
// so a failed write never leaves a partial output behind.
func WriteMidiFile(s *smf.SMF, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrap(err, "Could not create output dir")
	}

	tmp, err := os.CreateTemp(dir, ".midiclean-*.tmp")
	if err != nil {
		return errors.Wrap(err, "Could not create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := s.WriteTo(tmp); err != nil {
		tmp.Close()
		return errors.Wrap(err, fmt.Sprintf("Write failed for file: %v", path))
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "Could not close temp file")
	}
	return os.Rename(tmp.Name(), path)
}

func TicksPerQuarter(s *smf.SMF) (int, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return 0, errors.Wrapf(model.ErrMalformedInput, "unsupported time format %v", s.TimeFormat)
	}
	if mt == 0 {
		return 0, errors.Wrap(model.ErrMalformedInput, "ticks per quarter note is 0")
	}
	return int(uint16(mt)), nil
}
