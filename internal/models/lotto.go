package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Gender is the gender tag mixed into the seed string.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts the two enumerated values only.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case Male, Female:
		return Gender(s), true
	}
	return "", false
}

// Label returns the Korean label shown on the form.
func (g Gender) Label() string {
	switch g {
	case Male:
		return "남성"
	case Female:
		return "여성"
	}
	return ""
}

// UserSubmission is an accepted form submission.
// BirthDate is always ISO "YYYY-MM-DD" once it gets here.
type UserSubmission struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Gender    Gender `json:"gender"`
}

const (
	// NumberCount is the length of a NumberSet: five mains and a bonus.
	NumberCount = 6
	MainCount   = 5
	MinNumber   = 1
	MaxNumber   = 45
)

// NumberSet holds five ascending main numbers followed by the bonus number.
// The bonus is not sorted relative to the mains.
type NumberSet [NumberCount]int

// Main returns the five ascending main numbers.
func (n NumberSet) Main() []int {
	out := make([]int, MainCount)
	copy(out, n[:MainCount])
	return out
}

// Bonus returns the sixth number.
func (n NumberSet) Bonus() int {
	return n[MainCount]
}

// Ints returns all six numbers in display order.
func (n NumberSet) Ints() []int {
	out := make([]int, NumberCount)
	copy(out, n[:])
	return out
}

// Join formats the numbers with sep between them.
func (n NumberSet) Join(sep string) string {
	parts := make([]string, NumberCount)
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func (n NumberSet) String() string {
	return fmt.Sprintf("%v + %d", n.Main(), n.Bonus())
}

// BallColor returns the colour band of a lotto ball, as on the official draw.
func BallColor(number int) string {
	switch {
	case number <= 10:
		return "yellow"
	case number <= 20:
		return "blue"
	case number <= 30:
		return "red"
	case number <= 40:
		return "gray"
	default:
		return "green"
	}
}

// StateKind tags the active variant of SessionState.
type StateKind int

const (
	StateInput StateKind = iota
	StateAnimating
	StateResult
)

func (k StateKind) String() string {
	switch k {
	case StateInput:
		return "input"
	case StateAnimating:
		return "animation"
	case StateResult:
		return "result"
	}
	return "unknown"
}

// SessionState is the tagged union Input | Animating{numbers} | Result{name, numbers}.
// Name is only set for Result; Numbers is zero for Input.
type SessionState struct {
	Kind    StateKind
	Name    string
	Numbers NumberSet
}
