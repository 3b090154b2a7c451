package constants

import (
	"math"
	"os"
	"strconv"
)

func GetListenAddr() string {
	addr := os.Getenv("MIDICLEAN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// GetSeed reads MIDICLEAN_SEED. A missing or unparsable value means
// humanization draws from real entropy.
func GetSeed() (int64, bool) {
	raw := os.Getenv("MIDICLEAN_SEED")
	if raw == "" {
		return 0, false
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return seed, true
}

const MinPitch = 0
const MaxPitch = 127

// velocity 0 is a note-off, so shaped velocities never go below 1
const MinVelocity = 1
const MaxVelocity = 127

// release velocity used when a note ends with a note-on of velocity 0
const DefaultReleaseVelocity = 64

const DefaultStraightenWindow = 20
const DefaultHumanizeTicks = 10
const MaxHumanizeTicks = math.MaxInt32
const DefaultVelocityVariance = 15
const DefaultSwingGrid = "1/16"

// fraction of the swing grid at which a note counts as an off-beat
const SwingOffbeatThreshold = 0.9

// upper bound for POST /clean bodies
const MaxUploadSize = 16 * 1024 * 1024
