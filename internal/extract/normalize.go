package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse marks a model response that failed JSON parsing or
// shape validation. The whole response is rejected and contributes zero
// events; it is never retried.
var ErrMalformedResponse = fmt.Errorf("malformed model response")

var requiredFields = []string{"year", "month", "day_of_month", "event"}

// ParseResponse strips any surrounding markdown code fence from raw model
// output and parses it as a JSON array of event records. Validation is
// all-or-nothing: a single element that is not an object, or is missing a
// required field, rejects the entire response.
func ParseResponse(raw string) ([]RawEvent, error) {
	text := StripCodeFence(raw)

	if strings.TrimSpace(text) == "null" {
		return nil, fmt.Errorf("%w: response is null, not an array", ErrMalformedResponse)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	events := make([]RawEvent, 0, len(elems))
	for i, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedResponse, i)
		}
		for _, name := range requiredFields {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("%w: element %d missing field %q", ErrMalformedResponse, i, name)
			}
		}

		var eventText string
		if err := json.Unmarshal(fields["event"], &eventText); err != nil {
			return nil, fmt.Errorf("%w: element %d has non-string event text", ErrMalformedResponse, i)
		}

		events = append(events, RawEvent{
			Year:  NewValue(fields["year"]),
			Month: NewValue(fields["month"]),
			Day:   NewValue(fields["day_of_month"]),
			Event: eventText,
		})
	}

	return events, nil
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding triple-backtick fence (with an
// optional json language tag) and leading/trailing whitespace.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}
