// Package humanize injects bounded random timing offsets. Randomness always
// comes from an explicit Source so runs can be reproduced from a seed.
package humanize

import (
	"math"
	"math/rand"

	"github.com/jsphweid/midiclean/model"
)

type Source interface {
	Intn(n int) int
}

// NewSource returns a deterministic source: the same seed yields the same
// sequence of offsets.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func NewEntropySource() Source {
	return rand.New(rand.NewSource(rand.Int63()))
}

// Offset draws uniformly from [-max, +max]. max is capped at MaxInt32.
func Offset(src Source, max int) int {
	if max <= 0 {
		return 0
	}
	if max > math.MaxInt32 {
		max = math.MaxInt32
	}
	return src.Intn(2*max+1) - max
}

// Timing shifts each onset by an offset in [-maxTicks, +maxTicks], never
// before tick 0. Durations, pitch and velocity are untouched.
func Timing(notes model.Notes, maxTicks int64, src Source) model.Notes {
	res := model.Copy(notes)
	if maxTicks <= 0 {
		return res
	}
	for i := range res {
		offset := int64(Offset(src, int(maxTicks)))
		res[i].MoveTo(res[i].StartTick + offset)
	}
	return res
}
