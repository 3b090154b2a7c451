// Package straighten aligns vertically staggered onsets, such as a strummed
// or sloppily played chord, to their mean time without snapping to a grid.
package straighten

import (
	"sort"

	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/util"
)

// Clusters returns indexes into notes grouped by onset proximity. Notes are
// sorted by onset and a note joins the running cluster when its gap to the
// previous onset is at most window, so clusters chain transitively.
func Clusters(notes model.Notes, window int64) [][]int {
	if len(notes) == 0 {
		return nil
	}

	order := make([]int, len(notes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return notes[order[i]].StartTick < notes[order[j]].StartTick
	})

	var clusters [][]int
	current := []int{order[0]}
	for _, idx := range order[1:] {
		prev := notes[current[len(current)-1]].StartTick
		if notes[idx].StartTick-prev <= window {
			current = append(current, idx)
		} else {
			clusters = append(clusters, current)
			current = []int{idx}
		}
	}
	return append(clusters, current)
}

// Straighten moves every note of a multi-note cluster to the cluster's mean
// onset, rounded to the nearest tick. Durations and input order are kept.
func Straighten(notes model.Notes, window int64) model.Notes {
	res := model.Copy(notes)
	for _, cluster := range Clusters(notes, window) {
		if len(cluster) < 2 {
			continue
		}
		var sum int64
		for _, idx := range cluster {
			sum += notes[idx].StartTick
		}
		mean := util.DivRoundHalfEven(sum, int64(len(cluster)))
		for _, idx := range cluster {
			res[idx].MoveTo(mean)
		}
	}
	return res
}
