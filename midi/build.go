package midi

import (
	"sort"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/util"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// at equal ticks: other events first, then note offs, then note ons
const (
	rankOther = iota
	rankNoteOff
	rankNoteOn
)

type outEvent struct {
	tick    int64
	rank    int
	message []byte
}

func noteBytes(n model.NoteEvent) (channel, key, velocity, release uint8) {
	channel = uint8(util.Clamp(n.Channel, 0, 15))
	key = uint8(util.Clamp(n.Pitch, constants.MinPitch, constants.MaxPitch))
	velocity = uint8(util.Clamp(n.Velocity, constants.MinVelocity, constants.MaxVelocity))
	release = uint8(util.Clamp(n.ReleaseVelocity, 0, constants.MaxVelocity))
	return
}

// Build rebuilds a file from the song's non-note events and the given notes.
// Every source track is kept, notes are routed back by their Track index.
func Build(song *Song, notes model.Notes) (*smf.SMF, error) {
	if song.TicksPerQuarter < 1 || song.TicksPerQuarter > 0x7FFF {
		return nil, errors.Wrapf(model.ErrMalformedInput, "ticks per quarter %d out of range", song.TicksPerQuarter)
	}

	numTracks := len(song.Tracks)
	for _, n := range notes {
		if n.Track < 0 {
			return nil, errors.Wrapf(model.ErrMalformedInput, "negative track index %d", n.Track)
		}
		numTracks = util.Max(numTracks, n.Track+1)
	}

	perTrack := make([][]outEvent, numTracks)
	endTicks := make([]int64, numTracks)
	for i, te := range song.Tracks {
		for _, tm := range te.Events {
			perTrack[i] = append(perTrack[i], outEvent{tick: tm.Tick, rank: rankOther, message: tm.Message})
		}
		endTicks[i] = te.EndTick
	}

	for _, n := range notes {
		channel, key, velocity, release := noteBytes(n)
		perTrack[n.Track] = append(perTrack[n.Track],
			outEvent{tick: n.StartTick, rank: rankNoteOn, message: gomidi.NoteOn(channel, key, velocity)},
			outEvent{tick: n.End(), rank: rankNoteOff, message: gomidi.NoteOffVelocity(channel, key, release)},
		)
	}

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(song.TicksPerQuarter)
	for i, events := range perTrack {
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].tick != events[b].tick {
				return events[a].tick < events[b].tick
			}
			return events[a].rank < events[b].rank
		})

		var track smf.Track
		var current int64
		for _, evt := range events {
			tick := util.Max(evt.tick, 0)
			track.Add(uint32(tick-current), evt.message)
			current = tick
		}
		track.Close(uint32(util.Max(endTicks[i]-current, 0)))
		if err := res.Add(track); err != nil {
			return nil, errors.Wrapf(err, "error adding track %d", i)
		}
	}
	return res, nil
}
