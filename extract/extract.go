package extract

import (
	"strings"
)

// DefaultChunkSize is the number of characters per evidence chunk.
// Chunk indices are stored as evidence pointers on generated plan items,
// so chunk order must match position in the normalized source text.
const DefaultChunkSize = 600

// PlaceholderText is substituted when no stage of the extraction cascade
// produced any text, so downstream chunking never sees an empty document.
const PlaceholderText = "No readable text was extracted from this file."

// Result holds the extracted text for one uploaded file.
type Result struct {
	FullText string
	Chunks   []string
}

// Normalize replaces NUL bytes with spaces, collapses every run of
// whitespace (including newlines and tabs) to a single space, and trims
// leading and trailing whitespace.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\x00", " ")
	return strings.Join(strings.Fields(raw), " ")
}

// ChunkText normalizes text and partitions it into contiguous,
// non-overlapping windows of exactly size characters, except the last
// window which may be shorter. Size counts runes, not bytes, so a chunk
// never splits a multi-byte character. Empty or whitespace-only input
// yields no chunks. Concatenating the returned chunks in order
// reproduces the normalized text exactly.
func ChunkText(text string, size int) []string {
	runes := []rune(Normalize(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
