package midi

import (
	"sort"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TimedMessage is a non-note event held at its absolute tick so it can be
// re-emitted around the transformed notes.
type TimedMessage struct {
	Tick    int64
	Message smf.Message
}

type TrackEvents struct {
	Events  []TimedMessage
	EndTick int64
}

type Song struct {
	TicksPerQuarter int
	Notes           model.Notes
	Tracks          []TrackEvents
}

type pairKey struct {
	track   int
	channel uint8
	key     uint8
}

type pending struct {
	start    int64
	velocity uint8
}

// ParseSong pairs note-on/note-off messages into NoteEvents. Pairing is first
// in, first out per (track, channel, key), so stacked note-ons on one key each
// get their own note. Unpaired messages are MalformedInput unless
// allowUnpaired is set, in which case they are logged and dropped.
func ParseSong(s *smf.SMF, allowUnpaired bool) (*Song, error) {
	tpq, err := TicksPerQuarter(s)
	if err != nil {
		return nil, err
	}

	song := &Song{TicksPerQuarter: tpq}
	open := make(map[pairKey][]pending)

	for trackIdx, events := range s.Tracks {
		var te TrackEvents
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				k := pairKey{track: trackIdx, channel: channel, key: key}
				open[k] = append(open[k], pending{start: absTicks, velocity: velocity})
			case event.Message.GetNoteEnd(&channel, &key):
				release := uint8(constants.DefaultReleaseVelocity)
				// only a real note off carries a release velocity, note on 0 does not
				if msg := event.Message; len(msg) == 3 && msg[0]&0xF0 == 0x80 {
					release = msg[2]
				}
				k := pairKey{track: trackIdx, channel: channel, key: key}
				queue := open[k]
				if len(queue) == 0 {
					if !allowUnpaired {
						return nil, errors.Wrapf(model.ErrMalformedInput,
							"note off without note on: track %d channel %d key %d at tick %d",
							trackIdx, channel, key, absTicks)
					}
					logrus.WithFields(logrus.Fields{
						"track": trackIdx, "channel": channel, "key": key, "tick": absTicks,
					}).Warn("dropping note off for unpressed note")
					continue
				}
				p := queue[0]
				open[k] = queue[1:]
				duration := absTicks - p.start
				if duration < 1 {
					duration = 1
				}
				song.Notes = append(song.Notes, model.NoteEvent{
					Pitch:           int(key),
					Velocity:        int(p.velocity),
					ReleaseVelocity: int(release),
					StartTick:       p.start,
					DurationTicks:   duration,
					Channel:         int(channel),
					Track:           trackIdx,
				})
			case isEndOfTrack(event.Message):
				// re-added on build
			default:
				te.Events = append(te.Events, TimedMessage{Tick: absTicks, Message: event.Message})
			}
		}
		te.EndTick = absTicks
		song.Tracks = append(song.Tracks, te)
	}

	for k, queue := range open {
		for _, p := range queue {
			if !allowUnpaired {
				return nil, errors.Wrapf(model.ErrMalformedInput,
					"note on without note off: track %d channel %d key %d at tick %d",
					k.track, k.channel, k.key, p.start)
			}
			logrus.WithFields(logrus.Fields{
				"track": k.track, "channel": k.channel, "key": k.key, "tick": p.start,
			}).Warn("dropping note on with missing note off")
		}
	}

	sort.SliceStable(song.Notes, func(i, j int) bool {
		return song.Notes[i].StartTick < song.Notes[j].StartTick
	})
	return song, nil
}

func isEndOfTrack(msg smf.Message) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}
