// Package generator derives the daily lucky numbers from a visitor's details.
//
// The same name, birth date, gender and day always produce the same numbers.
package generator

import (
	"math"
	"sort"
	"time"
	"unicode/utf16"

	"luckylotto/internal/models"
)

// DateLayout is the format of both the birth date and the day key.
const DateLayout = "2006-01-02"

const seedDelimiter = "-"

// DateKey formats t as the day key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// SeedString joins the inputs and the day into the string that gets hashed.
func SeedString(name, birthDate string, gender models.Gender, today string) string {
	return name + seedDelimiter + birthDate + seedDelimiter + string(gender) + seedDelimiter + today
}

// Hash is the 31-multiplier rolling hash over UTF-16 code units,
// wrapping with 32-bit two's-complement arithmetic.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// Seed returns |h|. MinInt32 has no positive counterpart and maps to MaxInt32.
func Seed(h int32) uint32 {
	if h == math.MinInt32 {
		return math.MaxInt32
	}
	if h < 0 {
		return uint32(-h)
	}
	return uint32(h)
}

// Generate returns the numbers for the given inputs on the given day.
func Generate(name, birthDate string, gender models.Gender, today string) models.NumberSet {
	rng := newLCG(Seed(Hash(SeedString(name, birthDate, gender, today))))

	pool := make([]int, 0, models.MaxNumber)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		pool = append(pool, n)
	}

	var drawn models.NumberSet
	for i := range drawn {
		idx := rng.Intn(len(pool))
		drawn[i] = pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	sort.Ints(drawn[:models.MainCount])
	return drawn
}
