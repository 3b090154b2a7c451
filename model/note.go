package model

type NoteEvent struct {
	Pitch           int
	Velocity        int
	ReleaseVelocity int
	StartTick       int64
	DurationTicks   int64
	Channel         int
	Track           int
}

// End is the release tick.
func (n NoteEvent) End() int64 {
	return n.StartTick + n.DurationTicks
}

// SetEnd moves the release while keeping the minimum duration of 1 tick.
func (n *NoteEvent) SetEnd(end int64) {
	n.DurationTicks = end - n.StartTick
	if n.DurationTicks < 1 {
		n.DurationTicks = 1
	}
}

// MoveTo shifts the onset and carries the release along with it.
func (n *NoteEvent) MoveTo(start int64) {
	if start < 0 {
		start = 0
	}
	n.StartTick = start
	if n.DurationTicks < 1 {
		n.DurationTicks = 1
	}
}

type Notes = []NoteEvent

// Copy returns a new slice so stages never share backing arrays.
func Copy(notes Notes) Notes {
	res := make(Notes, len(notes))
	copy(res, notes)
	return res
}

type PitchKey struct {
	Pitch   int
	Channel int
}

func (n NoteEvent) PitchKey() PitchKey {
	return PitchKey{Pitch: n.Pitch, Channel: n.Channel}
}

type KeyConstraint struct {
	Tonic   int
	Mode    string
	Allowed [12]bool
}

func (k KeyConstraint) Allows(pitchClass int) bool {
	return k.Allowed[((pitchClass%12)+12)%12]
}

func (k KeyConstraint) PitchClasses() []int {
	var res []int
	for pc, ok := range k.Allowed {
		if ok {
			res = append(res, pc)
		}
	}
	return res
}
