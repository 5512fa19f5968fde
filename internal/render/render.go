// Package render emits the static d3-milestones HTML page for a finished
// timeline. Events carry their source page so each milestone deep-links
// back into the document.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dgallion1/timeliner/internal/timeline"
)

// Options controls the rendered page. StartYear and EndYear bound the
// visible window with exclusive comparisons; either bound left at zero is
// derived from the events themselves. Width is in pixels.
type Options struct {
	Title     string
	DocName   string // used to build per-event deep links (doc#page=N)
	StartYear int
	EndYear   int
	Width     int
}

// DefaultWidth is the page width used when Options.Width is zero.
const DefaultWidth = 3000

type entry struct {
	Year  string `json:"year"`
	Title string `json:"title"`
	Page  int    `json:"page,omitempty"`
}

var pageTmpl = template.Must(template.New("timeline").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/d3-milestones/build/d3-milestones.css">
<script src="https://unpkg.com/d3-milestones/build/d3-milestones.min.js"></script>
</head>
<body>
<div id="tooltip"
style="position: absolute; opacity: 0; padding: 10px; background-color: whitesmoke; border: 1px solid black; border-radius: 5px; width:300px; font-size: 8pt;">
</div>
<div id="timeline" style="width:{{.Width}}px;"></div>
<script>milestones('#timeline')
.mapping({
  'timestamp': 'year',
  'text': 'title'
})
.parseTime('%Y/%-m/%-d')
.aggregateBy('month')
.orientation('horizontal')
.useLabels(true)
.optimize(true)
.onEventClick((d) => {
    window.open({{.DocName}} + '#page=' + d.srcElement.__data__.attributes.page, '_blank');
})
.render({{.Entries}});
</script>
</body>
</html>
`))

// Page renders the timeline HTML. Events outside the (StartYear, EndYear)
// window are excluded from the visual output only; the timeline data
// itself is untouched. Year-level events get a "(year level)" suffix so
// their coarser precision is visible.
func Page(events []timeline.Event, opts Options) (string, error) {
	start, end := opts.StartYear, opts.EndYear
	if start == 0 || end == 0 {
		dmin, dmax := deriveWindow(events)
		if start == 0 {
			start = dmin
		}
		if end == 0 {
			end = dmax
		}
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	entries := []entry{{Year: fmt.Sprintf("%d/1/1", start), Title: "Start of timeline"}}
	for _, e := range events {
		if e.Year <= start || e.Year >= end {
			continue
		}
		title := e.Text
		if e.YearLevel() {
			title += " (year level)"
		}
		entries = append(entries, entry{
			Year:  timestamp(e),
			Title: title,
			Page:  e.Page,
		})
	}
	entries = append(entries, entry{Year: fmt.Sprintf("%d/1/1", end), Title: "End of timeline"})

	data := struct {
		Title   string
		DocName string
		Width   int
		Entries []entry
	}{
		Title:   opts.Title,
		DocName: opts.DocName,
		Width:   width,
		Entries: entries,
	}

	var sb strings.Builder
	if err := pageTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render timeline page: %w", err)
	}
	return sb.String(), nil
}

// timestamp formats an event for the template's %Y/%-m/%-d parser.
// Unknown month or day components fall back to 1.
func timestamp(e timeline.Event) string {
	month, day := e.Month, e.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return fmt.Sprintf("%d/%d/%d", e.Year, month, day)
}

// deriveWindow pads one year on each side of the observed range so
// boundary events survive the exclusive window comparisons.
func deriveWindow(events []timeline.Event) (int, int) {
	if len(events) == 0 {
		return 0, 1
	}
	min, max := events[0].Year, events[0].Year
	for _, e := range events[1:] {
		if e.Year < min {
			min = e.Year
		}
		if e.Year > max {
			max = e.Year
		}
	}
	return min - 1, max + 1
}
