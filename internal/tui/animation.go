package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"luckylotto/internal/animation"
	"luckylotto/internal/models"
)

// drum grid size in terminal cells
const (
	drumCols = 29
	drumRows = 13
)

// animModel plays the drawing machine for already generated numbers.
type animModel struct {
	numbers models.NumberSet
	balls   []animation.Ball
	sched   animation.Schedule
	elapsed time.Duration
}

func newAnimModel(numbers models.NumberSet, sched animation.Schedule, rng *rand.Rand) animModel {
	return animModel{
		numbers: numbers,
		balls:   animation.NewBalls(animation.DecorativeBalls, rng),
		sched:   sched,
	}
}

func (m animModel) phase() animation.Phase {
	return m.sched.PhaseAt(m.elapsed, models.NumberCount)
}

func (m animModel) done() bool {
	return m.phase().Done
}

func (m animModel) step(rng *rand.Rand) animModel {
	m.elapsed += animation.Frame
	if m.phase().Spinning {
		m.balls = animation.Step(m.balls, rng)
	}
	return m
}

func (m animModel) View() string {
	ph := m.phase()
	var b strings.Builder

	b.WriteString(m.drum())
	b.WriteString("\n")

	switch {
	case ph.Spinning:
		b.WriteString(titleStyle.Render("추첨 중..."))
	case ph.Revealed < models.NumberCount:
		b.WriteString(titleStyle.Render(fmt.Sprintf("%d번째 공!", ph.Revealed+1)))
		b.WriteString("  ")
		b.WriteString(ball(m.numbers[ph.Revealed]))
	default:
		b.WriteString(titleStyle.Render("추첨 완료!"))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("   %d / %d", ph.Revealed, models.NumberCount)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("🎱 뽑힌 번호  "))
	if ph.Revealed == 0 {
		b.WriteString(dimStyle.Render("추첨을 기다리는 중..."))
	}
	for i := 0; i < ph.Revealed; i++ {
		if i == models.MainCount {
			b.WriteString(dimStyle.Render("+ "))
		}
		b.WriteString(ball(m.numbers[i]))
		b.WriteString(" ")
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("아무 키나 누르면 결과로 건너뜁니다"))
	return b.String()
}

// drum rasterises the decorative balls onto a character grid.
func (m animModel) drum() string {
	grid := make([][]string, drumRows)
	for r := range grid {
		grid[r] = make([]string, drumCols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	diameter := 2 * animation.DrumRadius
	left := animation.CenterX - animation.DrumRadius
	top := animation.CenterY - animation.DrumRadius
	for _, bl := range m.balls {
		c := int((bl.X - left) / diameter * float64(drumCols-1))
		r := int((bl.Y - top) / diameter * float64(drumRows-1))
		if r < 0 || r >= drumRows || c < 0 || c >= drumCols {
			continue
		}
		grid[r][c] = ballStyle(bl.Number).Render("●")
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("╭" + strings.Repeat("─", drumCols) + "╮"))
	b.WriteString("\n")
	for _, row := range grid {
		b.WriteString(dimStyle.Render("│"))
		b.WriteString(strings.Join(row, ""))
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("╰" + strings.Repeat("─", drumCols) + "╯"))
	return b.String()
}
