package extract

import "strings"

// ExtractionPrompt is the fixed directive sent with every chunk. It demands
// a JSON array of event objects with exactly the four fields the
// normalizer validates.
const ExtractionPrompt = `Extract a timeline with dates from the text given below. The timeline should be stored in json as an array of event objects where each event has the attributes "year", "month", "day_of_month" and "event". If the month and day of month are unknown then they should be left blank. When a person's name is followed by two dates in brackets then the first date is the birth date and the second date is the death date. You should include both the birth and the death in the timeline. For example, "Albert Einstein (1879-1955)" should be included as two events, one for the birth and one for the death.

Respond with ONLY the JSON array, no other text.`

// BuildPrompt composes the extraction directive, optional caller-supplied
// guidance, and the chunk text into the full model prompt.
func BuildPrompt(chunkText, guidance string) string {
	var sb strings.Builder
	sb.WriteString(ExtractionPrompt)
	if g := strings.TrimSpace(guidance); g != "" {
		sb.WriteString("\n\n")
		sb.WriteString(g)
	}
	sb.WriteString("\n\nHere is the text:\n")
	sb.WriteString(chunkText)
	return sb.String()
}
