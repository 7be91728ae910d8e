// Package ads describes the banner slots shown around a result.
package ads

import (
	"strings"

	"luckylotto/internal/config"
)

const unitPrefix = "DAN-"

// Slot is one ad unit and its pixel size.
type Slot struct {
	Unit   string
	Width  int
	Height int
}

// Enabled reports whether the slot should render at all. A disabled slot
// renders nothing, so a broken ad setup never reaches the flow.
func (s Slot) Enabled() bool {
	return strings.HasPrefix(s.Unit, unitPrefix) && len(s.Unit) > len(unitPrefix) &&
		s.Width > 0 && s.Height > 0
}

// Banners is the template data for the result page slots.
type Banners struct {
	ScriptURL string
	Top       Slot
	Bottom    Slot
}

// Any reports whether at least one slot renders, so the script is only
// requested when needed.
func (b Banners) Any() bool {
	return b.ScriptURL != "" && (b.Top.Enabled() || b.Bottom.Enabled())
}

// FromConfig builds the banners from the ads section.
func FromConfig(c config.AdsConfig) Banners {
	return Banners{
		ScriptURL: c.ScriptURL,
		Top:       Slot{Unit: c.Top.Unit, Width: c.Top.Width, Height: c.Top.Height},
		Bottom:    Slot{Unit: c.Bottom.Unit, Width: c.Bottom.Width, Height: c.Bottom.Height},
	}
}
