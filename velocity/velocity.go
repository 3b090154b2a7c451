package velocity

import (
	"math"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/humanize"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/util"
)

func legal(v int) int {
	return util.Clamp(v, constants.MinVelocity, constants.MaxVelocity)
}

// Scale multiplies velocities by factor, rounding to the nearest integer and
// keeping the result in [1, 127].
func Scale(notes model.Notes, factor float64) model.Notes {
	res := model.Copy(notes)
	for i := range res {
		scaled := math.Round(float64(res[i].Velocity) * factor)
		if scaled > constants.MaxVelocity {
			scaled = constants.MaxVelocity
		}
		res[i].Velocity = legal(int(scaled))
	}
	return res
}

func Clamp(notes model.Notes, min, max int) model.Notes {
	res := model.Copy(notes)
	for i := range res {
		res[i].Velocity = util.Clamp(res[i].Velocity, min, max)
	}
	return res
}

// Humanize adds an offset in [-variance, +variance] to each velocity. The
// result is bound to the legal range only, not to any user clamp.
func Humanize(notes model.Notes, variance int, src humanize.Source) model.Notes {
	res := model.Copy(notes)
	if variance <= 0 {
		return res
	}
	for i := range res {
		res[i].Velocity = legal(res[i].Velocity + humanize.Offset(src, variance))
	}
	return res
}
