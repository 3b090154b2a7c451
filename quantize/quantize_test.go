package quantize

import (
	"fmt"
	"testing"

	"github.com/jsphweid/midiclean/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGridTicks(t *testing.T) {
	cases := []struct {
		division string
		tpq      int
		want     int64
	}{
		{"1/16", 480, 120},
		{"1/32", 480, 60},
		{"1/8", 96, 48},
		{"3/8", 480, 720},
		{"16", 480, 120},
		{" 1 / 4 ", 960, 960},
	}
	for _, c := range cases {
		t.Run(c.division, func(t *testing.T) {
			grid, err := GridTicks(c.tpq, c.division)
			assert := assert.New(t)
			assert.NoError(err)
			assert.Equal(c.want, grid)
		})
	}
}

func TestGridTicksInvalid(t *testing.T) {
	for _, division := range []string{"", "1/0", "0/16", "x/16", "1/", "-1/16", "1/4096"} {
		t.Run(division, func(t *testing.T) {
			_, err := GridTicks(96, division)
			assert.True(t, errors.Is(err, model.ErrInvalidConfiguration), "%v", err)
		})
	}
}

func TestSnapsToNearerGridLine(t *testing.T) {
	grid, err := GridTicks(480, "1/16")
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(int64(120), grid)

	out := Quantize(model.Notes{{Pitch: 60, Velocity: 90, StartTick: 135, DurationTicks: 100}}, grid)
	assert.Equal(int64(120), out[0].StartTick)
	assert.Equal(int64(100), out[0].DurationTicks)
	assert.Equal(90, out[0].Velocity)
}

func TestSnapMidpointRoundsToEvenIndex(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(int64(0), Snap(60, 120))
	assert.Equal(int64(240), Snap(180, 120))
	assert.Equal(int64(240), Snap(300, 120))
	assert.Equal(int64(480), Snap(420, 120))
	for i := 0; i < 5; i++ {
		assert.Equal(int64(240), Snap(180, 120))
	}
}

func TestQuantizeIsIdempotent(t *testing.T) {
	var notes model.Notes
	for tick := int64(0); tick < 2000; tick += 7 {
		notes = append(notes, model.NoteEvent{Pitch: 60, Velocity: 64, StartTick: tick, DurationTicks: 30})
	}
	for _, grid := range []int64{60, 120, 240} {
		t.Run(fmt.Sprint(grid), func(t *testing.T) {
			once := Quantize(notes, grid)
			twice := Quantize(once, grid)
			assert := assert.New(t)
			assert.Equal(once, twice)
			for _, n := range once {
				assert.Zero(n.StartTick % grid)
				assert.Equal(int64(30), n.DurationTicks)
			}
		})
	}
}

func TestQuantizeDoesNotMutateInput(t *testing.T) {
	in := model.Notes{{StartTick: 130, DurationTicks: 10}}
	Quantize(in, 120)
	assert.Equal(t, int64(130), in[0].StartTick)
}

func TestSwing(t *testing.T) {
	notes := model.Notes{
		{StartTick: 0, DurationTicks: 60},
		{StartTick: 120, DurationTicks: 60},
		{StartTick: 240, DurationTicks: 60},
		{StartTick: 360, DurationTicks: 60},
		{StartTick: 100, DurationTicks: 60},
	}
	assert := assert.New(t)

	assert.Equal(notes, Swing(notes, 120, 0))

	out := Swing(notes, 120, 0.5)
	assert.Equal(int64(0), out[0].StartTick)
	assert.Equal(int64(180), out[1].StartTick)
	assert.Equal(int64(240), out[2].StartTick)
	assert.Equal(int64(420), out[3].StartTick)
	// 100 is below 0.9 of the grid, not an off-beat
	assert.Equal(int64(100), out[4].StartTick)
	for _, n := range out {
		assert.Equal(int64(60), n.DurationTicks)
	}
}
