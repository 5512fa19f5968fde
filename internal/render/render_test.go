package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/timeliner/internal/timeline"
)

func TestPage_WindowIsExclusive(t *testing.T) {
	events := []timeline.Event{
		{Year: 1879, Text: "on the boundary"},
		{Year: 1900, Month: 6, Text: "inside the window"},
		{Year: 1955, Text: "on the other boundary"},
		{Year: 1970, Text: "outside entirely"},
	}
	html, err := Page(events, Options{Title: "t", DocName: "doc.pdf", StartYear: 1879, EndYear: 1955})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "inside the window") {
		t.Error("in-window event missing")
	}
	for _, excluded := range []string{"on the boundary", "on the other boundary", "outside entirely"} {
		if strings.Contains(html, excluded) {
			t.Errorf("excluded event rendered: %q", excluded)
		}
	}
}

func TestPage_YearLevelSuffix(t *testing.T) {
	events := []timeline.Event{
		{Year: 1903, Month: 0, Text: "coarse event"},
		{Year: 1911, Month: 12, Day: 10, Text: "precise event"},
	}
	html, err := Page(events, Options{StartYear: 1900, EndYear: 1920})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "coarse event (year level)") {
		t.Error("year-level suffix missing")
	}
	if strings.Contains(html, "precise event (year level)") {
		t.Error("suffix applied to a month-level event")
	}
	if !strings.Contains(html, "1911/12/10") {
		t.Error("month and day not rendered in the timestamp")
	}
	if !strings.Contains(html, "1903/1/1") {
		t.Error("year-level event should fall back to Jan 1")
	}
}

func TestPage_StartEndMarkers(t *testing.T) {
	html, err := Page([]timeline.Event{{Year: 1950, Text: "x"}}, Options{StartYear: 1940, EndYear: 1960})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Start of timeline") || !strings.Contains(html, "End of timeline") {
		t.Error("start/end markers missing")
	}
	if !strings.Contains(html, "1940/1/1") || !strings.Contains(html, "1960/1/1") {
		t.Error("marker timestamps missing")
	}
}

func TestPage_SingleBoundDerivesTheOther(t *testing.T) {
	events := []timeline.Event{
		{Year: 1895, Text: "before the start"},
		{Year: 1903, Text: "Nobel Prize in Physics"},
		{Year: 1911, Text: "Nobel Prize in Chemistry"},
	}

	html, err := Page(events, Options{StartYear: 1900})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Nobel Prize in Physics") || !strings.Contains(html, "Nobel Prize in Chemistry") {
		t.Error("events after start year missing when end year left unset")
	}
	if strings.Contains(html, "before the start") {
		t.Error("event before explicit start year rendered")
	}

	html, err = Page(events, Options{EndYear: 1910})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "before the start") || !strings.Contains(html, "Nobel Prize in Physics") {
		t.Error("events before end year missing when start year left unset")
	}
	if strings.Contains(html, "Nobel Prize in Chemistry") {
		t.Error("event past explicit end year rendered")
	}
}

func TestPage_DerivedWindowKeepsBoundaryEvents(t *testing.T) {
	events := []timeline.Event{
		{Year: 1879, Text: "earliest"},
		{Year: 1955, Text: "latest"},
	}
	html, err := Page(events, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "earliest") || !strings.Contains(html, "latest") {
		t.Error("boundary events must survive a derived window")
	}
	if !strings.Contains(html, "1878/1/1") || !strings.Contains(html, "1956/1/1") {
		t.Error("derived window should pad one year each side")
	}
}

func TestPage_WidthDefault(t *testing.T) {
	html, err := Page(nil, Options{StartYear: 1, EndYear: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "width:3000px") {
		t.Error("default width not applied")
	}

	html, err = Page(nil, Options{StartYear: 1, EndYear: 2, Width: 1200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "width:1200px") {
		t.Error("explicit width not applied")
	}
}

func TestPage_DeepLinkUsesDocName(t *testing.T) {
	html, err := Page([]timeline.Event{{Year: 1950, Text: "x", Page: 4}}, Options{
		DocName:   "einstein.pdf",
		StartYear: 1940,
		EndYear:   1960,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "einstein.pdf") {
		t.Error("document name missing from deep-link script")
	}
	if !strings.Contains(html, `"page":4`) {
		t.Error("page attribute missing from entry data")
	}
}
