package chunker

import (
	"strings"

	"github.com/dgallion1/timeliner/internal/document"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		MinChunk:     20,
	}
}

// Chunk walks a document's sections in order and produces prompt-sized
// chunks. Each chunk carries the 1-based page of its originating section
// (1 when the format has no pages) and a 0-based sequence index that
// defines document order for the rest of the pipeline.
func Chunk(doc *document.Document, cfg Config) []document.Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 20
	}

	var chunks []document.Chunk
	emit := func(text string, page int) {
		text = strings.TrimSpace(text)
		if text == "" || EstimateTokens(text) < cfg.MinChunk {
			return
		}
		if page <= 0 {
			page = 1
		}
		chunks = append(chunks, document.Chunk{
			Text:  text,
			Page:  page,
			Index: len(chunks),
		})
	}

	for _, sec := range doc.Sections {
		text := sec.Text
		if sec.Title != "" {
			text = sec.Title + "\n\n" + text
		}
		if EstimateTokens(text) <= cfg.ChunkSize {
			emit(text, sec.Page)
			continue
		}
		for _, part := range splitText(text, cfg.ChunkSize, cfg.ChunkOverlap) {
			emit(part, sec.Page)
		}
	}

	return chunks
}

// splitText breaks text into chunks of approximately targetTokens, with
// overlap between consecutive chunks. Paragraph boundaries are preferred;
// oversize paragraphs are split by sentences.
func splitText(text string, targetTokens, overlapTokens int) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if currentTokens == 0 {
			return
		}
		result = append(result, current.String())
		overlap := overlapText(current.String(), overlapTokens)
		current.Reset()
		currentTokens = 0
		if overlap != "" {
			current.WriteString(overlap)
			currentTokens = EstimateTokens(overlap)
		}
	}

	appendPiece := func(piece, sep string) {
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
		currentTokens += EstimateTokens(piece)
	}

	for _, para := range splitParagraphs(text) {
		paraTokens := EstimateTokens(para)

		if paraTokens > targetTokens {
			flush()
			for _, sent := range splitSentences(para) {
				if currentTokens+EstimateTokens(sent) > targetTokens && currentTokens > 0 {
					flush()
				}
				appendPiece(sent, " ")
			}
			flush()
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			flush()
		}
		appendPiece(para, "\n\n")
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

func splitParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitSentences does basic sentence splitting on terminal punctuation.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// overlapText extracts roughly the last targetTokens worth of words.
func overlapText(text string, targetTokens int) string {
	if targetTokens <= 0 {
		return ""
	}
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}
