package services

import (
	"errors"
	"testing"
	"time"

	"luckylotto/internal/models"
)

func testClock() Clock {
	return FixedClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
}

func validRaw() RawSubmission {
	return RawSubmission{Name: "  홍길동 ", BirthDate: "19900115", Gender: "male"}
}

func TestController_Flow(t *testing.T) {
	calls := 0
	var seen []models.StateKind
	c := NewController(testClock(), DefaultValidator(),
		WithTransitionHook(func(from, to models.StateKind) { seen = append(seen, to) }),
	)
	counting := c.generate
	c.generate = func(name, birth string, g models.Gender, today string) models.NumberSet {
		calls++
		return counting(name, birth, g, today)
	}

	want := models.NumberSet{6, 12, 26, 32, 43, 1}

	t.Run("Starts in input", func(t *testing.T) {
		if c.State().Kind != models.StateInput {
			t.Fatalf("Expected input state, got %s", c.State().Kind)
		}
	})

	t.Run("Invalid submission keeps input", func(t *testing.T) {
		_, err := c.Submit(RawSubmission{Name: " ", BirthDate: "1990-13-01", Gender: "other"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected a ValidationError, got %v", err)
		}
		if len(verr.Fields) != 3 {
			t.Errorf("Expected 3 rejected fields, got %v", verr.Fields)
		}
		if c.State().Kind != models.StateInput {
			t.Errorf("Expected input state, got %s", c.State().Kind)
		}
		if calls != 0 {
			t.Errorf("Generator must not run for rejected input, ran %d times", calls)
		}
	})

	t.Run("Valid submission animates with trimmed name", func(t *testing.T) {
		got, err := c.Submit(validRaw())
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
		st := c.State()
		if st.Kind != models.StateAnimating || st.Numbers != want {
			t.Errorf("Expected animating with %v, got %+v", want, st)
		}
		sub, ok := c.Submission()
		if !ok || sub.Name != "홍길동" || sub.BirthDate != "1990-01-15" {
			t.Errorf("Unexpected submission %+v", sub)
		}
		if n, ok := c.Numbers(); !ok || n != want {
			t.Errorf("Expected frozen numbers %v, got %v", want, n)
		}
		if calls != 1 {
			t.Errorf("Expected generator to run once, ran %d times", calls)
		}
	})

	t.Run("No second submit while animating", func(t *testing.T) {
		if _, err := c.Submit(validRaw()); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("Expected ErrInvalidTransition, got %v", err)
		}
		if err := c.Reset(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("Expected ErrInvalidTransition on reset, got %v", err)
		}
	})

	t.Run("Animation completes into result", func(t *testing.T) {
		if err := c.CompleteAnimation(); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		st := c.State()
		if st.Kind != models.StateResult || st.Name != "홍길동" || st.Numbers != want {
			t.Errorf("Unexpected result state %+v", st)
		}
		if err := c.CompleteAnimation(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Expected no way back into animation, got %v", err)
		}
	})

	t.Run("Reset clears everything", func(t *testing.T) {
		if err := c.Reset(); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		st := c.State()
		if st.Kind != models.StateInput || st.Numbers != (models.NumberSet{}) || st.Name != "" {
			t.Errorf("Expected a cleared input state, got %+v", st)
		}
		if _, ok := c.Submission(); ok {
			t.Error("Expected submission to be cleared")
		}
		if _, ok := c.Numbers(); ok {
			t.Error("Expected numbers to be cleared")
		}
	})

	t.Run("Same input same day reproduces", func(t *testing.T) {
		got, err := c.Submit(validRaw())
		if err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		if got != want {
			t.Errorf("Expected %v after reset, got %v", want, got)
		}
	})

	wantSeen := []models.StateKind{
		models.StateAnimating, models.StateResult, models.StateInput, models.StateAnimating,
	}
	if len(seen) != len(wantSeen) {
		t.Fatalf("Expected transitions %v, got %v", wantSeen, seen)
	}
	for i := range wantSeen {
		if seen[i] != wantSeen[i] {
			t.Errorf("Transition %d: expected %s, got %s", i, wantSeen[i], seen[i])
		}
	}
}

func TestController_DayRollover(t *testing.T) {
	day1 := NewController(FixedClock(time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)), DefaultValidator())
	day2 := NewController(FixedClock(time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC)), DefaultValidator())

	a, err := day1.Submit(validRaw())
	if err != nil {
		t.Fatal(err)
	}
	b, err := day2.Submit(validRaw())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("Expected different numbers across days, both were %v", a)
	}
	if day2.Today() != "2024-06-02" {
		t.Errorf("Expected today 2024-06-02, got %s", day2.Today())
	}
}
