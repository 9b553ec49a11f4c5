// Package biomarker parses the display-formatted biomarker strings the journey
// backend produces ("138/88", "75kg", "6.2 hours") into numeric readings.
package biomarker

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Float parses the leading decimal number of s, ignoring any unit suffix.
// "75kg" yields 75, "6.2 hours" yields 6.2.
func Float(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// Int parses the leading integer of s. "72.5%" yields 72.
func Int(s string) (int, bool) {
	m := intPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BloodPressure splits a "sys/dia" reading.
func BloodPressure(raw string) (sys, dia int, ok bool) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	s, okSys := Int(parts[0])
	d, okDia := Int(parts[1])
	if !okSys || !okDia {
		return 0, 0, false
	}
	return s, d, true
}

// Systolic returns the systolic part of a blood pressure string, 0 when unparseable.
func Systolic(raw string) int {
	v, _ := Int(strings.SplitN(raw, "/", 2)[0])
	return v
}

// Score returns the numerator of an "n/10" style reading.
func Score(raw string) int {
	v, _ := Int(strings.SplitN(raw, "/", 2)[0])
	return v
}

// Kilograms parses a "75kg" weight. Unparseable values yield 0.
func Kilograms(raw string) float64 {
	v, ok := Float(strings.Replace(raw, "kg", "", 1))
	if !ok {
		return 0
	}
	return v
}

// Percent parses the adherence style "72%" into 0.72. A value without a
// leading integer yields NaN.
func Percent(raw string) float64 {
	v, ok := Int(strings.Replace(raw, "%", "", 1))
	if !ok {
		return math.NaN()
	}
	return float64(v) / 100
}

// Reading is a parsed biomarker value with its unit tag.
type Reading struct {
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Valid bool    `json:"valid"`
}

// Read extracts the reading for a chart option key from a snapshot.
// Missing values fall back to the option's zero literal and are not Valid.
func Read(b models.Biomarkers, key string) Reading {
	opt, ok := Lookup(key)
	if !ok {
		return Reading{}
	}

	raw := b.Or(opt.Source, opt.Zero)
	r := Reading{Raw: raw, Unit: opt.Unit}

	switch opt.parse {
	case parseLeadingInt:
		v, ok := Int(raw)
		r.Value, r.Valid = float64(v), ok
	case parseLeadingFloat:
		v, ok := Float(raw)
		if ok {
			r.Value, r.Valid = v, true
		}
	}
	return r
}

// Display helpers for compact cards ("--" when a value is absent).

// DisplayBloodPressure returns the systolic and diastolic display parts.
func DisplayBloodPressure(b models.Biomarkers) (string, string) {
	raw := b.Get(models.KeyBloodPressure)
	if raw == "" {
		return "--", "--"
	}
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) == 1 {
		return parts[0], "--"
	}
	return parts[0], parts[1]
}

// DisplayWeight strips the kg suffix.
func DisplayWeight(b models.Biomarkers) string {
	raw := b.Get(models.KeyWeight)
	if raw == "" {
		return "--"
	}
	return strings.Replace(raw, "kg", "", 1)
}

// DisplayStress returns the stress numerator.
func DisplayStress(b models.Biomarkers) string {
	raw := b.Get(models.KeyStressLevel)
	if raw == "" {
		return "--"
	}
	if s := strings.SplitN(raw, "/", 2)[0]; s != "" {
		return s
	}
	return "--"
}
