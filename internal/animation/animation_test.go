package animation

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNewBalls(t *testing.T) {
	balls := NewBalls(DecorativeBalls, testRand())
	require.Len(t, balls, DecorativeBalls)
	for _, b := range balls {
		assert.GreaterOrEqual(t, b.Number, 1)
		assert.LessOrEqual(t, b.Number, 45)
		assert.GreaterOrEqual(t, b.X, 20.0)
		assert.Less(t, b.X, 180.0)
	}
}

func TestStepKeepsBallsInDrumAndUnderSpeed(t *testing.T) {
	rng := testRand()
	balls := NewBalls(DecorativeBalls, rng)
	for range 500 {
		balls = Step(balls, rng)
		for _, b := range balls {
			dist := math.Hypot(b.X-CenterX, b.Y-CenterY)
			require.LessOrEqual(t, dist, DrumRadius-BallRadius+maxSpeed+1e-9)
			require.LessOrEqual(t, math.Hypot(b.VX, b.VY), maxSpeed+1e-9)
		}
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	rng := testRand()
	in := []Ball{{Number: 7, X: 100, Y: 100, VX: 1, VY: 1}}
	out := Step(in, rng)

	assert.Equal(t, Ball{Number: 7, X: 100, Y: 100, VX: 1, VY: 1}, in[0])
	assert.Equal(t, 101.0, out[0].X)
	assert.InDelta(t, 1.3, out[0].VY, 1e-9)
}

func TestStepBouncesOffWall(t *testing.T) {
	// heading straight down into the bottom of the drum
	in := []Ball{{Number: 1, X: CenterX, Y: CenterY + 70, VX: 0, VY: 5}}
	out := Step(in, testRand())

	assert.InDelta(t, CenterY+DrumRadius-BallRadius, out[0].Y, 1e-9)
	assert.Less(t, out[0].VY, 0.0)
}

func TestSchedule(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, 1200*time.Millisecond, s.DropAt(0))
	assert.Equal(t, 3200*time.Millisecond, s.DropAt(1))
	assert.Equal(t, 2*time.Second, s.RevealAt(0))
	assert.Equal(t, 12*time.Second, s.RevealAt(5))
	assert.Equal(t, 13*time.Second, s.Total(6))

	assert.Equal(t, Phase{Revealed: 0, Spinning: true}, s.PhaseAt(0, 6))
	assert.Equal(t, Phase{Revealed: 0, Spinning: false}, s.PhaseAt(1500*time.Millisecond, 6))
	assert.Equal(t, Phase{Revealed: 1, Spinning: true}, s.PhaseAt(2100*time.Millisecond, 6))
	assert.Equal(t, Phase{Revealed: 6}, s.PhaseAt(12500*time.Millisecond, 6))
	assert.Equal(t, Phase{Revealed: 6, Done: true}, s.PhaseAt(13*time.Second, 6))
}
