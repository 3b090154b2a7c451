// Package quantize snaps note onsets to a musical grid and applies swing.
package quantize

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/util"
	"github.com/pkg/errors"
)

// ParseDivision reads "1/16", "3/8" or a bare denominator such as "16".
func ParseDivision(s string) (num int, den int, err error) {
	s = strings.TrimSpace(s)
	numStr, denStr, found := strings.Cut(s, "/")
	if !found {
		numStr, denStr = "1", s
	}
	num, err = strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return 0, 0, errors.Wrapf(model.ErrInvalidConfiguration, "quantize division %q", s)
	}
	den, err = strconv.Atoi(strings.TrimSpace(denStr))
	if err != nil {
		return 0, 0, errors.Wrapf(model.ErrInvalidConfiguration, "quantize division %q", s)
	}
	if num <= 0 || den <= 0 {
		return 0, 0, errors.Wrapf(model.ErrInvalidConfiguration, "quantize division %q must be positive", s)
	}
	return num, den, nil
}

// GridTicks is the grid spacing of division at the given resolution:
// a whole note (4 quarters) times the fraction.
func GridTicks(ticksPerQuarter int, division string) (int64, error) {
	num, den, err := ParseDivision(division)
	if err != nil {
		return 0, err
	}
	if ticksPerQuarter < 1 {
		return 0, errors.Wrapf(model.ErrInvalidConfiguration, "ticks per quarter %d", ticksPerQuarter)
	}
	grid := int64(ticksPerQuarter) * 4 * int64(num) / int64(den)
	if grid < 1 {
		return 0, errors.Wrapf(model.ErrInvalidConfiguration,
			"division %s is finer than one tick at %d ticks per quarter", division, ticksPerQuarter)
	}
	return grid, nil
}

// Snap returns the grid line nearest to tick. A tick exactly between two lines
// goes to the one with the even grid index.
func Snap(tick, grid int64) int64 {
	return util.DivRoundHalfEven(tick, grid) * grid
}

// Quantize moves every onset to its grid line. The release moves by the same
// delta so durations are kept.
func Quantize(notes model.Notes, grid int64) model.Notes {
	res := model.Copy(notes)
	for i := range res {
		res[i].MoveTo(Snap(res[i].StartTick, grid))
	}
	return res
}

// IsOffbeat reports whether tick sits in the second half of a two-grid pair.
func IsOffbeat(tick, grid int64) bool {
	pos := tick % (grid * 2)
	return float64(pos) >= float64(grid)*constants.SwingOffbeatThreshold
}

// Swing delays off-beat notes by amount (0..1) of the grid.
func Swing(notes model.Notes, grid int64, amount float64) model.Notes {
	res := model.Copy(notes)
	offset := int64(math.RoundToEven(float64(grid) * amount))
	if offset == 0 {
		return res
	}
	for i := range res {
		if IsOffbeat(res[i].StartTick, grid) {
			res[i].MoveTo(res[i].StartTick + offset)
		}
	}
	return res
}
