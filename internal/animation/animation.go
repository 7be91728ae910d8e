// Package animation holds the cosmetic ball-drawing machine. Nothing here
// affects which numbers are drawn; it only decides what the drum looks like
// and when each generated number is revealed.
package animation

import (
	"math"
	"math/rand/v2"
	"time"

	"luckylotto/internal/models"
)

// Drum geometry in drawing units.
const (
	DrumRadius = 90.0
	BallRadius = 18.0
	CenterX    = 100.0
	CenterY    = 100.0

	gravity     = 0.3
	restitution = 0.8
	jitter      = 2.0
	maxSpeed    = 12.0
)

// DecorativeBalls is how many balls tumble in the drum.
const DecorativeBalls = 15

// Frame is the physics step interval.
const Frame = 30 * time.Millisecond

// Ball is one decorative ball.
type Ball struct {
	Number int
	X, Y   float64
	VX, VY float64
}

// NewBalls scatters n random balls inside the drum.
func NewBalls(n int, rng *rand.Rand) []Ball {
	balls := make([]Ball, n)
	for i := range balls {
		balls[i] = Ball{
			Number: rng.IntN(models.MaxNumber) + models.MinNumber,
			X:      rng.Float64()*160 + 20,
			Y:      rng.Float64()*160 + 20,
			VX:     (rng.Float64() - 0.5) * 8,
			VY:     (rng.Float64() - 0.5) * 8,
		}
	}
	return balls
}

// Step advances every ball by one frame and returns the new state.
// The input slice is left untouched.
func Step(balls []Ball, rng *rand.Rand) []Ball {
	out := make([]Ball, len(balls))
	for i, b := range balls {
		out[i] = stepBall(b, rng)
	}
	return out
}

func stepBall(b Ball, rng *rand.Rand) Ball {
	x, y := b.X+b.VX, b.Y+b.VY
	vx, vy := b.VX, b.VY+gravity

	dx, dy := x-CenterX, y-CenterY
	dist := math.Hypot(dx, dy)
	if dist+BallRadius > DrumRadius && dist > 0 {
		nx, ny := dx/dist, dy/dist
		x = CenterX + nx*(DrumRadius-BallRadius)
		y = CenterY + ny*(DrumRadius-BallRadius)

		dot := vx*nx + vy*ny
		vx = (vx - 2*dot*nx) * restitution
		vy = (vy - 2*dot*ny) * restitution

		vx += (rng.Float64() - 0.5) * jitter
		vy += (rng.Float64() - 0.5) * jitter
	}

	if speed := math.Hypot(vx, vy); speed > maxSpeed {
		vx = vx / speed * maxSpeed
		vy = vy / speed * maxSpeed
	}

	return Ball{Number: b.Number, X: x, Y: y, VX: vx, VY: vy}
}

// Schedule paces the reveal of the generated numbers.
type Schedule struct {
	// Spin is how long the drum tumbles before a ball drops.
	Spin time.Duration
	// Reveal is the time between consecutive reveals.
	Reveal time.Duration
	// Finish is the pause after the last reveal before the result shows.
	Finish time.Duration
}

// DefaultSchedule matches the web page's CSS timings.
func DefaultSchedule() Schedule {
	return Schedule{
		Spin:   1200 * time.Millisecond,
		Reveal: 2000 * time.Millisecond,
		Finish: 1000 * time.Millisecond,
	}
}

// DropAt is when ball i leaves the drum, counted from the start.
func (s Schedule) DropAt(i int) time.Duration {
	return time.Duration(i)*s.Reveal + s.Spin
}

// RevealAt is when ball i joins the revealed row.
func (s Schedule) RevealAt(i int) time.Duration {
	return time.Duration(i+1) * s.Reveal
}

// Total is when the animation is complete for n balls.
func (s Schedule) Total(n int) time.Duration {
	return s.RevealAt(n-1) + s.Finish
}

// Phase describes the machine at elapsed time t for n balls.
type Phase struct {
	Revealed int  // balls already in the revealed row
	Spinning bool // drum tumbling (false while a ball sits in the exit)
	Done     bool
}

// PhaseAt reports the machine phase at elapsed.
func (s Schedule) PhaseAt(elapsed time.Duration, n int) Phase {
	if elapsed >= s.Total(n) {
		return Phase{Revealed: n, Done: true}
	}
	revealed := int(elapsed / s.Reveal)
	if revealed >= n {
		return Phase{Revealed: n}
	}
	spinning := elapsed-time.Duration(revealed)*s.Reveal < s.Spin
	return Phase{Revealed: revealed, Spinning: spinning}
}
