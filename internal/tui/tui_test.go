package tui

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"luckylotto/internal/models"
	"luckylotto/internal/services"
)

// helpers

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func specialKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

type fakeCopier struct {
	got string
	err error
}

func (f *fakeCopier) Copy(text string) error {
	f.got = text
	return f.err
}

func newTestModel(copier *fakeCopier) Model {
	clock := services.FixedClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	ctl := services.NewController(clock, services.DefaultValidator())
	return New(ctl, Options{
		BaseURL: "https://lotto.example.com",
		Copier:  copier,
		Rand:    rand.New(rand.NewPCG(7, 7)),
	})
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func fillForm(m Model) Model {
	m.form.name.SetValue("홍길동")
	m.form.birth.SetValue("19900115")
	m.form.gender = models.Male
	return m
}

func TestFormViewShowsFields(t *testing.T) {
	m := newTestModel(nil)
	view := m.View()

	for _, want := range []string{"이름", "생년월일", "성별", "남성", "여성"} {
		if !strings.Contains(view, want) {
			t.Errorf("form view should contain %q", want)
		}
	}
}

func TestViewCentersInWindow(t *testing.T) {
	m := newTestModel(nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	first := strings.SplitN(m.View(), "\n", 2)[0]
	if !strings.HasPrefix(first, " ") {
		t.Errorf("expected the view to be centered, got %q", first)
	}
	if !strings.Contains(first, "오늘의 로또 번호") {
		t.Errorf("expected the title on the first line, got %q", first)
	}
}

func TestFormTypingAndGender(t *testing.T) {
	m := newTestModel(nil)

	for _, r := range "Bob" {
		m, _ = update(m, keyMsg(r))
	}
	if m.form.name.Value() != "Bob" {
		t.Fatalf("expected name Bob, got %q", m.form.name.Value())
	}

	m, _ = update(m, specialKey(tea.KeyTab))
	for _, r := range "19850101" {
		m, _ = update(m, keyMsg(r))
	}
	if m.form.birth.Value() != "19850101" {
		t.Fatalf("expected birth 19850101, got %q", m.form.birth.Value())
	}

	m, _ = update(m, specialKey(tea.KeyTab))
	m, _ = update(m, keyMsg('f'))
	if m.form.gender != models.Female {
		t.Errorf("expected female, got %q", m.form.gender)
	}
	m, _ = update(m, specialKey(tea.KeyLeft))
	if m.form.gender != models.Male {
		t.Errorf("expected male, got %q", m.form.gender)
	}
	// typing on the gender row must not leak into the text fields
	if m.form.name.Value() != "Bob" || m.form.birth.Value() != "19850101" {
		t.Error("gender keys should not edit text fields")
	}
}

func TestInvalidSubmitStaysOnForm(t *testing.T) {
	m := newTestModel(nil)
	m, cmd := update(m, specialKey(tea.KeyEnter))

	if cmd != nil {
		t.Error("rejected submit should not start the animation")
	}
	if m.ctl.State().Kind != models.StateInput {
		t.Fatalf("expected input state, got %s", m.ctl.State().Kind)
	}
	if !errors.Is(m.form.errs, services.ErrEmptyName) {
		t.Errorf("expected empty name error, got %v", m.form.errs)
	}
	if !strings.Contains(m.View(), services.ErrEmptyName.Error()) {
		t.Error("view should show the inline error")
	}
}

func TestFullFlow(t *testing.T) {
	copier := &fakeCopier{}
	m := fillForm(newTestModel(copier))

	m, cmd := update(m, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("accepted submit should schedule a frame")
	}
	if m.ctl.State().Kind != models.StateAnimating {
		t.Fatalf("expected animating state, got %s", m.ctl.State().Kind)
	}
	if !strings.Contains(m.View(), "추첨 중") {
		t.Error("animation should start spinning")
	}

	frames := 0
	for m.ctl.State().Kind == models.StateAnimating {
		m, cmd = update(m, frameMsg{})
		frames++
		if frames > 1000 {
			t.Fatal("animation never completed")
		}
	}
	if cmd != nil {
		t.Error("no more frames should be scheduled after completion")
	}
	wantFrames := int(m.sched.Total(models.NumberCount) / (30 * time.Millisecond))
	if frames < wantFrames {
		t.Errorf("animation finished too early: %d frames, want at least %d", frames, wantFrames)
	}

	st := m.ctl.State()
	if st.Kind != models.StateResult || st.Numbers != (models.NumberSet{6, 12, 26, 32, 43, 1}) {
		t.Fatalf("unexpected result state %+v", st)
	}
	view := m.View()
	if !strings.Contains(view, "홍길동") || !strings.Contains(view, "2024-06-01") {
		t.Error("result view should show name and day")
	}

	// stale frames are ignored
	m, _ = update(m, frameMsg{})
	if m.ctl.State().Kind != models.StateResult {
		t.Fatal("stale frame changed the state")
	}

	m, cmd = update(m, keyMsg('c'))
	if cmd == nil {
		t.Error("copy should schedule clearing the flash")
	}
	if !strings.Contains(copier.got, "6, 12, 26, 32, 43, 1") || !strings.HasSuffix(copier.got, "https://lotto.example.com") {
		t.Errorf("unexpected clipboard payload %q", copier.got)
	}
	if !strings.Contains(m.View(), "복사 완료") {
		t.Error("view should show the copy notification")
	}
	m, _ = update(m, flashMsg{})
	if strings.Contains(m.View(), "복사 완료") {
		t.Error("flash should clear")
	}

	m, _ = update(m, keyMsg('r'))
	if m.ctl.State().Kind != models.StateInput {
		t.Fatalf("expected input after reset, got %s", m.ctl.State().Kind)
	}
	if m.form.name.Value() != "" {
		t.Error("reset should clear the form")
	}
}

func TestSkipAnimation(t *testing.T) {
	m := fillForm(newTestModel(nil))
	m, _ = update(m, specialKey(tea.KeyEnter))
	m, _ = update(m, keyMsg('x'))

	if m.ctl.State().Kind != models.StateResult {
		t.Fatalf("expected result after skipping, got %s", m.ctl.State().Kind)
	}
}

func TestCopyFailureIsOnlyANotification(t *testing.T) {
	m := fillForm(newTestModel(&fakeCopier{err: errors.New("denied")}))
	m, _ = update(m, specialKey(tea.KeyEnter))
	m, _ = update(m, keyMsg('x'))
	m, _ = update(m, keyMsg('c'))

	if !m.flash.Failed {
		t.Error("expected a failed notification")
	}
	if m.ctl.State().Kind != models.StateResult {
		t.Error("clipboard failure must not touch the state")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(nil)
	_, cmd := update(m, specialKey(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
