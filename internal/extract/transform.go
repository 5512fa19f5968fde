package extract

import (
	"strconv"
	"strings"

	"github.com/dgallion1/timeliner/internal/document"
	"github.com/dgallion1/timeliner/internal/timeline"
)

// MonthTable maps lowercase month names and abbreviations to 1..12.
type MonthTable map[string]int

// DefaultMonths returns the English month table covering full names and
// common abbreviations.
func DefaultMonths() MonthTable {
	return MonthTable{
		"january": 1, "jan": 1,
		"february": 2, "feb": 2,
		"march": 3, "mar": 3,
		"april": 4, "apr": 4,
		"may": 5,
		"june": 6, "jun": 6,
		"july": 7, "jul": 7,
		"august": 8, "aug": 8,
		"september": 9, "sep": 9, "sept": 9,
		"october": 10, "oct": 10,
		"november": 11, "nov": 11,
		"december": 12, "dec": 12,
	}
}

// Transformer collapses raw event records into canonical timeline events.
// The month table is injected so tests and other locales can substitute
// their own mapping.
type Transformer struct {
	months MonthTable
}

// NewTransformer builds a Transformer. A nil table uses DefaultMonths.
func NewTransformer(months MonthTable) *Transformer {
	if months == nil {
		months = DefaultMonths()
	}
	return &Transformer{months: months}
}

// Canonical converts one raw event to a canonical event, attaching
// provenance from the originating chunk. It never fails: unknown months
// and days become 0, and an undeterminable year yields an unplaceable
// event (year 0) that the assembler drops later.
func (t *Transformer) Canonical(re RawEvent, chunk document.Chunk) timeline.Event {
	return timeline.Event{
		Year:   t.year(re.Year),
		Month:  t.month(re.Month),
		Day:    t.day(re.Day),
		Text:   re.Event,
		Source: chunk.Text,
		Page:   chunk.Page,
	}
}

func (t *Transformer) month(v Value) int {
	if n, ok := v.Int(); ok {
		if n < 0 || n > 12 {
			return 0
		}
		return n
	}
	s, ok := v.Str()
	if !ok {
		return 0
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := t.months[s]; ok {
		return m
	}
	if isDigits(s) {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
			return n
		}
	}
	return 0
}

func (t *Transformer) day(v Value) int {
	if n, ok := v.Int(); ok {
		// Deliberately no range check against the month's day count.
		return n
	}
	if s, ok := v.Str(); ok && isDigits(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

func (t *Transformer) year(v Value) int {
	if n, ok := v.Int(); ok {
		return n
	}
	if s, ok := v.Str(); ok && isDigits(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
