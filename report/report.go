package report

import (
	"fmt"
	"io"
	"math"

	"github.com/jsphweid/midiclean/harmony"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/quantize"
	"github.com/jsphweid/midiclean/util"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	NumNotes         int
	LowestPitch      int
	HighestPitch     int
	VelocityMean     float64
	VelocityStdDev   float64
	GridTicks        int64
	OnsetDeviation   float64
	OnGridPercent    float64
	PitchClassCounts [12]int
}

// Summarize describes a note set. grid of 0 skips the onset deviation
// figures.
func Summarize(notes model.Notes, grid int64) Summary {
	var s Summary
	s.NumNotes = len(notes)
	s.GridTicks = grid
	if len(notes) == 0 {
		return s
	}

	velocities := make([]float64, len(notes))
	deviations := make([]float64, len(notes))
	s.LowestPitch, s.HighestPitch = notes[0].Pitch, notes[0].Pitch
	var onGrid int
	for i, n := range notes {
		velocities[i] = float64(n.Velocity)
		s.LowestPitch = util.Min(s.LowestPitch, n.Pitch)
		s.HighestPitch = util.Max(s.HighestPitch, n.Pitch)
		s.PitchClassCounts[((n.Pitch%12)+12)%12]++
		if grid > 0 {
			d := util.Abs(n.StartTick - quantize.Snap(n.StartTick, grid))
			deviations[i] = float64(d)
			if d == 0 {
				onGrid++
			}
		}
	}

	s.VelocityMean, s.VelocityStdDev = stat.MeanStdDev(velocities, nil)
	if math.IsNaN(s.VelocityStdDev) {
		s.VelocityStdDev = 0
	}
	if grid > 0 {
		s.OnsetDeviation = stat.Mean(deviations, nil)
		s.OnGridPercent = 100 * float64(onGrid) / float64(len(notes))
	}
	return s
}

func Print(w io.Writer, s Summary) {
	fmt.Fprintf(w, "notes: %v\n", s.NumNotes)
	if s.NumNotes == 0 {
		return
	}
	fmt.Fprintf(w, "pitch range: %v - %v\n", harmony.NoteName(s.LowestPitch), harmony.NoteName(s.HighestPitch))
	fmt.Fprintf(w, "velocity mean: %.1f stddev: %.1f\n", s.VelocityMean, s.VelocityStdDev)
	if s.GridTicks > 0 {
		fmt.Fprintf(w, "grid: %v ticks, mean onset deviation: %.2f ticks, on grid: %.1f%%\n",
			s.GridTicks, s.OnsetDeviation, s.OnGridPercent)
	}
	for pc, count := range s.PitchClassCounts {
		if count > 0 {
			fmt.Fprintf(w, "  %-2v %v\n", harmony.NoteNames[pc], count)
		}
	}
}
