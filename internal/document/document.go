package document

// Document is the parsed form of a source file.
type Document struct {
	Title    string    // Document title (from metadata or filename)
	Name     string    // Original filename, used for per-event deep links
	Sections []Section // Ordered spans of text
}

// Section is a contiguous span of document text with page provenance.
// Page is 0 when the source format has no page concept.
type Section struct {
	Title string
	Text  string
	Page  int
}

// Flatten joins all section text for content hashing.
func (d *Document) Flatten() string {
	var sb []byte
	for _, s := range d.Sections {
		if len(sb) > 0 {
			sb = append(sb, '\n')
		}
		sb = append(sb, s.Text...)
	}
	return string(sb)
}

// Chunk is the unit of model prompting: a sized text segment with page
// provenance and a stable position in document order.
type Chunk struct {
	Text  string
	Page  int // 1-based source page
	Index int // 0-based sequence number within the document
}
