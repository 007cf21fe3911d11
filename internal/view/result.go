// Package view turns a matched person into what the user sees: a styled
// terminal card, an HTML card or plain text.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/mgomes/pfind/internal/search"
)

// NotReported is shown when the backend omits sources_used.
const NotReported = "n/a"

type Result struct {
	FirstName   string
	LastName    string
	Title       string
	Confidence  float64
	SourceURL   string
	SourcesUsed string
}

func New(person search.Person, sourcesUsed search.SourcesUsed) Result {
	return Result{
		FirstName:   Sanitize(person.FirstName),
		LastName:    Sanitize(person.LastName),
		Title:       Sanitize(person.CurrentTitle),
		Confidence:  person.Confidence,
		SourceURL:   Sanitize(person.SourceURL),
		SourcesUsed: Sanitize(sourcesUsed.String()),
	}
}

// Sanitize drops control characters, so text from the backend cannot carry
// terminal escape sequences.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// FromOutcome returns the view for a successful outcome and false otherwise.
func FromOutcome(outcome search.Outcome) (Result, bool) {
	if outcome.Kind != search.KindResult || outcome.Person == nil {
		return Result{}, false
	}
	return New(*outcome.Person, outcome.SourcesUsed), true
}

// ConfidencePercent rounds half up, like the confidence label always has.
func (r Result) ConfidencePercent() int {
	return int(math.Floor(r.Confidence*100 + 0.5))
}

func (r Result) ConfidenceLabel() string {
	return fmt.Sprintf("%d%%", r.ConfidencePercent())
}

// BarFraction is the share of the confidence bar that is filled.
func (r Result) BarFraction() float64 {
	return r.Confidence
}

// BarWidth is the CSS width of the filled part of the bar. It is not rounded.
func (r Result) BarWidth() string {
	return strconv.FormatFloat(r.Confidence*100, 'f', -1, 64) + "%"
}

func (r Result) SourcesLabel() string {
	if strings.TrimSpace(r.SourcesUsed) == "" {
		return NotReported
	}
	return r.SourcesUsed
}

type field struct {
	label string
	value string
}

func (r Result) fields() []field {
	return []field{
		{"First Name", r.FirstName},
		{"Last Name", r.LastName},
		{"Title", r.Title},
		{"Confidence", r.ConfidenceLabel()},
	}
}

// Plain renders the result without colours or escape sequences.
func (r Result) Plain() string {
	var b strings.Builder

	b.WriteString("Person Found\n")
	for _, f := range r.fields() {
		fmt.Fprintf(&b, "%-13s %s\n", f.label+":", f.value)
	}
	fmt.Fprintf(&b, "%-13s %s\n", "Source URL:", r.SourceURL)
	fmt.Fprintf(&b, "%-13s %s\n", "Sources Used:", r.SourcesLabel())

	return b.String()
}
