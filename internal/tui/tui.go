// Package tui implements the terminal front end: the same input ->
// animation -> result flow as the web page, driven by Bubble Tea.
package tui

import (
	"errors"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"luckylotto/internal/animation"
	"luckylotto/internal/models"
	"luckylotto/internal/services"
	"luckylotto/internal/share"
)

// frameMsg advances the drawing machine by one frame.
type frameMsg struct{}

// flashMsg clears the share notification.
type flashMsg struct{}

func frameTick() tea.Cmd {
	return tea.Tick(animation.Frame, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func clearFlashAfter3s() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

// Options configures the terminal front end.
type Options struct {
	BaseURL  string
	Copier   share.Copier
	Schedule animation.Schedule
	Rand     *rand.Rand
}

// Model is the root TUI model.
type Model struct {
	ctl    *services.Controller
	copier share.Copier
	link   string
	sched  animation.Schedule
	rng    *rand.Rand

	form  formModel
	anim  animModel
	flash share.Notification

	width int
}

// New creates the root TUI model around ctl.
func New(ctl *services.Controller, opts Options) Model {
	if opts.Schedule == (animation.Schedule{}) {
		opts.Schedule = animation.DefaultSchedule()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return Model{
		ctl:    ctl,
		copier: opts.Copier,
		link:   opts.BaseURL,
		sched:  opts.Schedule,
		rng:    opts.Rand,
		form:   newFormModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case flashMsg:
		m.flash = share.Notification{}
		return m, nil
	}

	switch m.ctl.State().Kind {
	case models.StateAnimating:
		return m.updateAnimating(msg)
	case models.StateResult:
		return m.updateResult(msg)
	default:
		return m.updateInput(msg)
	}
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var submit bool
	var cmd tea.Cmd
	m.form, submit, cmd = m.form.Update(msg)
	if !submit {
		return m, cmd
	}

	numbers, err := m.ctl.Submit(m.form.raw())
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		m.form.errs = verr
		return m, nil
	}
	if err != nil {
		return m, nil
	}

	m.form.errs = nil
	m.anim = newAnimModel(numbers, m.sched, m.rng)
	return m, frameTick()
}

func (m Model) updateAnimating(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		m.anim = m.anim.step(m.rng)
		if !m.anim.done() {
			return m, frameTick()
		}
		_ = m.ctl.CompleteAnimation()
		return m, nil

	case tea.KeyMsg:
		// any key skips the rest of the show
		_ = m.ctl.CompleteAnimation()
		return m, nil
	}
	return m, nil
}

func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "c":
		st := m.ctl.State()
		m.flash = share.Notify(m.copier, share.CopyPayload(share.Text(st.Name, st.Numbers), m.link))
		return m, clearFlashAfter3s()

	case "r":
		if err := m.ctl.Reset(); err != nil {
			return m, nil
		}
		m.form = newFormModel()
		m.flash = share.Notification{}
		return m, m.form.Init()

	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var view string
	st := m.ctl.State()
	switch st.Kind {
	case models.StateAnimating:
		view = m.anim.View()
	case models.StateResult:
		view = resultView(st, m.ctl.Today(), m.flash)
	default:
		view = m.form.View()
	}

	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
	}
	return view
}
