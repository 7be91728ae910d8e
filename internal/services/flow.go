package services

import (
	"errors"
	"fmt"

	"luckylotto/internal/generator"
	"luckylotto/internal/models"
)

// ErrInvalidTransition is returned when an event does not apply to the current state.
var ErrInvalidTransition = errors.New("invalid state transition")

// GenerateFunc is the number generator the controller calls on submit.
type GenerateFunc func(name, birthDate string, gender models.Gender, today string) models.NumberSet

// TransitionHook observes every state change.
type TransitionHook func(from, to models.StateKind)

// Controller drives one visitor through input -> animation -> result.
// It is not safe for concurrent use; SessionService serialises access.
type Controller struct {
	state      models.StateKind
	submission *models.UserSubmission
	numbers    models.NumberSet

	clock     Clock
	validator Validator
	generate  GenerateFunc
	hook      TransitionHook
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithGenerator replaces the number generator.
func WithGenerator(fn GenerateFunc) ControllerOption {
	return func(c *Controller) { c.generate = fn }
}

// WithTransitionHook registers fn to run after every transition.
func WithTransitionHook(fn TransitionHook) ControllerOption {
	return func(c *Controller) { c.hook = fn }
}

// NewController creates a controller in the input state.
func NewController(clock Clock, validator Validator, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:     models.StateInput,
		clock:     clock,
		validator: validator,
		generate:  generator.Generate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the active state.
func (c *Controller) State() models.SessionState {
	switch c.state {
	case models.StateAnimating:
		return models.SessionState{Kind: models.StateAnimating, Numbers: c.numbers}
	case models.StateResult:
		return models.SessionState{Kind: models.StateResult, Name: c.submission.Name, Numbers: c.numbers}
	}
	return models.SessionState{Kind: models.StateInput}
}

// Submission returns the accepted submission, if any.
func (c *Controller) Submission() (models.UserSubmission, bool) {
	if c.submission == nil {
		return models.UserSubmission{}, false
	}
	return *c.submission, true
}

// Numbers returns the frozen numbers once a submission has been accepted.
func (c *Controller) Numbers() (models.NumberSet, bool) {
	if c.submission == nil {
		return models.NumberSet{}, false
	}
	return c.numbers, true
}

// Today returns the day key the controller generates for.
func (c *Controller) Today() string {
	return Today(c.clock)
}

// Submit validates raw and, if accepted, generates the numbers once and
// moves to the animation state. A rejected submission leaves the state alone.
func (c *Controller) Submit(raw RawSubmission) (models.NumberSet, error) {
	if c.state != models.StateInput {
		return models.NumberSet{}, fmt.Errorf("submit in %s: %w", c.state, ErrInvalidTransition)
	}

	now := c.clock.Now()
	sub, err := c.validator.Validate(raw, now)
	if err != nil {
		return models.NumberSet{}, err
	}

	c.numbers = c.generate(sub.Name, sub.BirthDate, sub.Gender, generator.DateKey(now))
	c.submission = &sub
	c.transition(models.StateAnimating)
	return c.numbers, nil
}

// CompleteAnimation moves from the animation state to the result state.
func (c *Controller) CompleteAnimation() error {
	if c.state != models.StateAnimating {
		return fmt.Errorf("complete animation in %s: %w", c.state, ErrInvalidTransition)
	}
	c.transition(models.StateResult)
	return nil
}

// Reset clears the result and returns to the input state.
func (c *Controller) Reset() error {
	if c.state != models.StateResult {
		return fmt.Errorf("reset in %s: %w", c.state, ErrInvalidTransition)
	}
	c.clear()
	return nil
}

func (c *Controller) clear() {
	c.submission = nil
	c.numbers = models.NumberSet{}
	c.transition(models.StateInput)
}

func (c *Controller) transition(to models.StateKind) {
	from := c.state
	c.state = to
	if c.hook != nil {
		c.hook(from, to)
	}
}
