package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"luckylotto/internal/models"
	"luckylotto/internal/share"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

var ballColors = map[string]lipgloss.Color{
	"yellow": lipgloss.Color("220"),
	"blue":   lipgloss.Color("39"),
	"red":    lipgloss.Color("203"),
	"gray":   lipgloss.Color("250"),
	"green":  lipgloss.Color("112"),
}

func ballStyle(n int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ballColors[models.BallColor(n)])
}

func ball(n int) string {
	return ballStyle(n).Render(fmt.Sprintf("(%2d)", n))
}

func resultView(st models.SessionState, today string, flash share.Notification) string {
	var b strings.Builder

	b.WriteString(dimStyle.Render("📅 " + today))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(st.Name) + "님의 오늘 로또 번호")
	b.WriteString("\n\n")

	for _, n := range st.Numbers.Main() {
		b.WriteString(ball(n))
		b.WriteString(" ")
	}
	b.WriteString(dimStyle.Render("+ "))
	b.WriteString(ball(st.Numbers.Bonus()))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("오늘 날짜 기준으로 생성된 번호입니다. 내일 다시 뽑으면 결과가 달라집니다!"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("※ 번호는 재미로 참고해주세요"))

	card := cardStyle.Render(b.String())

	var out strings.Builder
	out.WriteString(card)
	out.WriteString("\n")
	if flash.Title != "" {
		style := okStyle
		if flash.Failed {
			style = errorStyle
		}
		out.WriteString(style.Render(flash.Title + " " + flash.Description))
		out.WriteString("\n")
	}
	out.WriteString(helpStyle.Render("c 복사 · r 다시 뽑기 · q 종료"))
	return out.String()
}
