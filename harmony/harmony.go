// Package harmony parses key names and forces pitches onto a scale.
package harmony

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/midiclean/constants"
	"github.com/jsphweid/midiclean/model"
	"github.com/jsphweid/midiclean/util"
	"github.com/pkg/errors"
)

var ScalePatterns = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"dorian":     {0, 2, 3, 5, 7, 9, 10},
	"phrygian":   {0, 1, 3, 5, 7, 8, 10},
	"lydian":     {0, 2, 4, 6, 7, 9, 11},
	"mixolydian": {0, 2, 4, 5, 7, 9, 10},
	"aeolian":    {0, 2, 3, 5, 7, 8, 10},
	"locrian":    {0, 1, 3, 5, 6, 8, 10},
}

var NoteNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var naturals = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// NoteName renders a MIDI pitch with octave, 60 being C4.
func NoteName(pitch int) string {
	return fmt.Sprintf("%s%d", NoteNames[((pitch%12)+12)%12], pitch/12-1)
}

func modeNames() []string {
	names := make([]string, 0, len(ScalePatterns))
	for name := range ScalePatterns {
		names = append(names, name)
	}
	// longest first so "minor" never shadows a longer suffix
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

func parseTonic(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	pc, ok := naturals[s[0]]
	if !ok {
		return 0, false
	}
	if len(s) == 2 {
		switch s[1] {
		case '#':
			pc++
		case 'b':
			pc--
		default:
			return 0, false
		}
	}
	return (pc + 12) % 12, true
}

func parsePitchClassSet(s string) (model.KeyConstraint, error) {
	var k model.KeyConstraint
	for _, part := range strings.Split(s, ",") {
		pc, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || pc < 0 || pc > 11 {
			return k, errors.Wrapf(model.ErrInvalidConfiguration, "pitch class %q in key %q", part, s)
		}
		k.Allowed[pc] = true
	}
	k.Tonic = k.PitchClasses()[0]
	k.Mode = "custom"
	return k, nil
}

// ParseKey accepts names like "C", "Dminor", "F# dorian", "Bb-lydian" or an
// explicit pitch class list such as "0,2,4,5,7,9,11".
func ParseKey(s string) (model.KeyConstraint, error) {
	var k model.KeyConstraint
	raw := strings.TrimSpace(s)
	if raw == "" {
		return k, errors.Wrap(model.ErrInvalidConfiguration, "empty key")
	}
	if raw[0] >= '0' && raw[0] <= '9' {
		return parsePitchClassSet(raw)
	}

	key := strings.ToLower(raw)
	key = strings.NewReplacer(" ", "", "-", "", "_", "", "♯", "#", "♭", "b").Replace(key)

	mode := ""
	for _, name := range modeNames() {
		if strings.HasSuffix(key, name) {
			mode = name
			key = strings.TrimSuffix(key, name)
			break
		}
	}
	if mode == "" {
		mode = "major"
		switch {
		case strings.HasSuffix(key, "maj"):
			key = strings.TrimSuffix(key, "maj")
		case strings.HasSuffix(key, "min"):
			mode = "minor"
			key = strings.TrimSuffix(key, "min")
		case len(key) > 1 && strings.HasSuffix(key, "m"):
			mode = "minor"
			key = strings.TrimSuffix(key, "m")
		}
	}

	tonic, ok := parseTonic(key)
	if !ok {
		return k, errors.Wrapf(model.ErrInvalidConfiguration, "unknown key %q", s)
	}

	k.Tonic = tonic
	k.Mode = mode
	for _, degree := range ScalePatterns[mode] {
		k.Allowed[(tonic+degree)%12] = true
	}
	return k, nil
}

// Describe is the display name of a key, e.g. "D minor".
func Describe(k model.KeyConstraint) string {
	if k.Mode == "custom" {
		return fmt.Sprintf("pitch classes %v", k.PitchClasses())
	}
	return NoteNames[k.Tonic] + " " + k.Mode
}

// Nearest returns pitch when its class is allowed. Otherwise it returns the
// in-range, in-key pitch with the smallest shift, the lower one on a tie.
func Nearest(pitch int, k model.KeyConstraint) int {
	pitch = util.Clamp(pitch, constants.MinPitch, constants.MaxPitch)
	if k.Allows(pitch) {
		return pitch
	}
	for d := 1; d < 12; d++ {
		if down := pitch - d; down >= constants.MinPitch && k.Allows(down) {
			return down
		}
		if up := pitch + d; up <= constants.MaxPitch && k.Allows(up) {
			return up
		}
	}
	return pitch
}

// Force maps each note independently to its nearest in-key pitch. Only the
// pitch changes.
func Force(notes model.Notes, k model.KeyConstraint) model.Notes {
	res := model.Copy(notes)
	for i := range res {
		res[i].Pitch = Nearest(res[i].Pitch, k)
	}
	return res
}
