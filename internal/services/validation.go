package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"luckylotto/internal/generator"
	"luckylotto/internal/models"
)

var (
	ErrEmptyName           = errors.New("이름을 입력해주세요")
	ErrNameTooLong         = errors.New("이름이 너무 깁니다")
	ErrInvalidBirthDate    = errors.New("생년월일을 8자리 숫자로 입력해주세요 (예: 19900115)")
	ErrBirthDateOutOfRange = errors.New("생년월일이 유효한 범위를 벗어났습니다")
	ErrInvalidGender       = errors.New("성별을 선택해주세요")
)

// Form field names, shared with the HTML form and the TUI.
const (
	FieldName      = "name"
	FieldBirthDate = "birthDate"
	FieldGender    = "gender"
)

// RawSubmission is the form as typed, before validation.
type RawSubmission struct {
	Name      string
	BirthDate string
	Gender    string
}

// ValidationError collects the rejected fields of a submission.
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Fields[k]))
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, err := range e.Fields {
		errs = append(errs, err)
	}
	return errs
}

// Message returns the inline message for field, or "".
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	if err, ok := e.Fields[field]; ok {
		return err.Error()
	}
	return ""
}

// Validator gates submissions before they can leave the input state.
type Validator struct {
	MaxNameLength int
	MinBirthYear  int
}

// DefaultValidator matches the form limits: 20 characters, born 1900 or later.
func DefaultValidator() Validator {
	return Validator{MaxNameLength: 20, MinBirthYear: 1900}
}

var birthLayouts = []string{generator.DateLayout, "20060102", "2006.01.02"}

// Validate trims and checks raw against today and returns the accepted submission.
func (v Validator) Validate(raw RawSubmission, today time.Time) (models.UserSubmission, error) {
	fields := make(map[string]error)

	name := strings.TrimSpace(raw.Name)
	switch {
	case name == "":
		fields[FieldName] = ErrEmptyName
	case v.MaxNameLength > 0 && utf8.RuneCountInString(name) > v.MaxNameLength:
		fields[FieldName] = ErrNameTooLong
	}

	birth, err := v.parseBirthDate(raw.BirthDate, today)
	if err != nil {
		fields[FieldBirthDate] = err
	}

	gender, ok := models.ParseGender(strings.TrimSpace(raw.Gender))
	if !ok {
		fields[FieldGender] = ErrInvalidGender
	}

	if len(fields) > 0 {
		return models.UserSubmission{}, &ValidationError{Fields: fields}
	}
	return models.UserSubmission{Name: name, BirthDate: birth, Gender: gender}, nil
}

// NormalizeBirthDate converts YYYYMMDD and YYYY.MM.DD input to ISO form.
// It only checks the shape and calendar validity, not the range.
func NormalizeBirthDate(s string) (string, error) {
	t, err := parseCalendarDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(generator.DateLayout), nil
}

func parseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range birthLayouts {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidBirthDate
}

func (v Validator) parseBirthDate(s string, today time.Time) (string, error) {
	t, err := parseCalendarDate(s)
	if err != nil {
		return "", err
	}
	key := t.Format(generator.DateLayout)
	if t.Year() < v.MinBirthYear || key > generator.DateKey(today) {
		return "", ErrBirthDateOutOfRange
	}
	return key, nil
}
