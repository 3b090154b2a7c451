// Package dedupe removes stacked duplicate notes and repairs same-pitch
// overlaps that many synthesizers mishandle.
package dedupe

import (
	"sort"

	"github.com/jsphweid/midiclean/model"
)

// groups returns note indexes per (pitch, channel), each group sorted by onset
// with ties kept in original order. Groups come back in first-seen order.
func groups(notes model.Notes) [][]int {
	byKey := make(map[model.PitchKey]int)
	var res [][]int
	for i, n := range notes {
		g, ok := byKey[n.PitchKey()]
		if !ok {
			g = len(res)
			byKey[n.PitchKey()] = g
			res = append(res, nil)
		}
		res[g] = append(res[g], i)
	}
	for _, g := range res {
		sort.SliceStable(g, func(i, j int) bool {
			return notes[g[i]].StartTick < notes[g[j]].StartTick
		})
	}
	return res
}

// Dedupe drops notes that share pitch and channel with an onset within epsilon
// of the first onset of their run. The loudest note of a run survives, the
// earliest in input order on equal velocity. Survivors keep their input order.
func Dedupe(notes model.Notes, epsilon int64) (model.Notes, int) {
	keep := make([]bool, len(notes))
	for _, g := range groups(notes) {
		for start := 0; start < len(g); {
			anchor := notes[g[start]].StartTick
			best := g[start]
			end := start + 1
			for end < len(g) && notes[g[end]].StartTick-anchor <= epsilon {
				candidate := notes[g[end]]
				if candidate.Velocity > notes[best].Velocity ||
					(candidate.Velocity == notes[best].Velocity && g[end] < best) {
					best = g[end]
				}
				end++
			}
			keep[best] = true
			start = end
		}
	}

	res := make(model.Notes, 0, len(notes))
	for i, n := range notes {
		if keep[i] {
			res = append(res, n)
		}
	}
	return res, len(notes) - len(res)
}

// LegatoFix trims a note that is still sounding when the next note of the same
// pitch and channel starts, so it releases one tick before that onset. The
// trimmed duration never drops below 1 tick.
func LegatoFix(notes model.Notes) (model.Notes, int) {
	res := model.Copy(notes)
	var trimmed int
	for _, g := range groups(res) {
		for i := 0; i+1 < len(g); i++ {
			earlier := &res[g[i]]
			later := res[g[i+1]]
			if earlier.End() > later.StartTick {
				earlier.SetEnd(later.StartTick - 1)
				trimmed++
			}
		}
	}
	return res, trimmed
}
