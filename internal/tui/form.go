package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"luckylotto/internal/models"
	"luckylotto/internal/services"
)

const (
	fieldName = iota
	fieldBirth
	fieldGender
	fieldCount
)

// formModel collects name, birth date and gender.
type formModel struct {
	name   textinput.Model
	birth  textinput.Model
	gender models.Gender
	focus  int
	errs   *services.ValidationError
}

func newFormModel() formModel {
	name := textinput.New()
	name.Placeholder = "홍길동"
	name.CharLimit = 20
	name.Width = 24
	name.Prompt = ""

	birth := textinput.New()
	birth.Placeholder = "19900115"
	birth.CharLimit = 10
	birth.Width = 12
	birth.Prompt = ""

	m := formModel{name: name, birth: birth}
	m.name.Focus()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) raw() services.RawSubmission {
	return services.RawSubmission{
		Name:      m.name.Value(),
		BirthDate: m.birth.Value(),
		Gender:    string(m.gender),
	}
}

// Update returns submit=true when the visitor pressed enter.
func (m formModel) Update(msg tea.Msg) (formModel, bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch key.String() {
	case "enter":
		return m, true, nil
	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount), false, textinput.Blink
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + fieldCount) % fieldCount), false, textinput.Blink
	}

	if m.focus == fieldGender {
		switch key.String() {
		case "left", "m":
			m.gender = models.Male
		case "right", "f":
			m.gender = models.Female
		case " ":
			if m.gender == models.Male {
				m.gender = models.Female
			} else {
				m.gender = models.Male
			}
		}
		return m, false, nil
	}

	return m.updateInputs(msg)
}

func (m formModel) updateInputs(msg tea.Msg) (formModel, bool, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldBirth:
		m.birth, cmd = m.birth.Update(msg)
	}
	return m, false, cmd
}

func (m formModel) setFocus(f int) formModel {
	m.name.Blur()
	m.birth.Blur()
	m.focus = f
	switch f {
	case fieldName:
		m.name.Focus()
	case fieldBirth:
		m.birth.Focus()
	}
	return m
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🍀 오늘의 로또 번호"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("생년월일과 이름으로 뽑아보는 나만의 오늘 로또 번호"))
	b.WriteString("\n\n")

	b.WriteString(m.label("이름", fieldName))
	b.WriteString(m.name.View())
	b.WriteString("\n")
	b.WriteString(errorLine(m.errs.Message(services.FieldName)))

	b.WriteString(m.label("생년월일", fieldBirth))
	b.WriteString(m.birth.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  8자리 숫자로 입력해주세요 (예: 19900115)"))
	b.WriteString("\n")
	b.WriteString(errorLine(m.errs.Message(services.FieldBirthDate)))

	b.WriteString(m.label("성별", fieldGender))
	for _, g := range []models.Gender{models.Male, models.Female} {
		if m.gender == g {
			b.WriteString(selectedStyle.Render("● " + g.Label()))
		} else {
			b.WriteString(dimStyle.Render("○ " + g.Label()))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	b.WriteString(errorLine(m.errs.Message(services.FieldGender)))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("🔒 입력한 정보는 저장되지 않습니다"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab 이동 · ←/→ 성별 · enter 뽑기 · ctrl+c 종료"))
	return b.String()
}

func (m formModel) label(text string, field int) string {
	if m.focus == field {
		return selectedStyle.Render("> "+text) + "  "
	}
	return "  " + text + "  "
}

func errorLine(msg string) string {
	if msg == "" {
		return ""
	}
	return errorStyle.Render("  "+msg) + "\n"
}
