package timeline

// Event is a canonical, placeable timeline entry. Month and Day are 0 when
// unknown (a month of 0 marks a year-level event, displayed at coarser
// granularity). Year 0 marks an event that cannot be placed on the
// timeline at all; such events are dropped during Finalize.
type Event struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day_of_month"`
	Text   string `json:"event"`
	Source string `json:"source"`
	Page   int    `json:"page"`
}

// Placeable reports whether the event has a determinable year.
func (e Event) Placeable() bool {
	return e.Year != 0
}

// YearLevel reports whether the event is only dated to year precision.
func (e Event) YearLevel() bool {
	return e.Month == 0
}

// Builder accumulates events across chunks in document order.
type Builder struct {
	events []Event
}

// Append adds events in emission order. The caller is responsible for
// appending chunks in document order.
func (b *Builder) Append(events ...Event) {
	b.events = append(b.events, events...)
}

// Len returns the number of accumulated events, including unplaceable ones.
func (b *Builder) Len() int {
	return len(b.events)
}

// Finalize drops unplaceable events, deduplicates the rest, and returns
// the finished timeline.
func (b *Builder) Finalize() []Event {
	placeable := make([]Event, 0, len(b.events))
	for _, e := range b.events {
		if e.Placeable() {
			placeable = append(placeable, e)
		}
	}
	return Dedupe(placeable)
}

type key struct {
	text string
	year int
}

// Dedupe collapses events that share identical event text and year. The
// first occurrence wins; later duplicates are dropped along with their
// provenance. Event text is compared exactly, with no normalization.
func Dedupe(events []Event) []Event {
	seen := make(map[key]bool, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		k := key{text: e.Text, year: e.Year}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
