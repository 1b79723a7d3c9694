package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a\n\tb \x00 c  "))
	assert.Equal(t, "", Normalize("\x00\x00"))
	assert.Equal(t, "", Normalize("   \n\t  "))
	assert.Equal(t, "hello world", Normalize("hello world"))
}

func TestChunkTextRoundTrip(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("abc ", 500),
		"one\ntwo\tthree   four",
		strings.Repeat("é", 400) + " attesté né à Genève " + strings.Repeat("ü", 300),
	}
	sizes := []int{1, 7, 600, 601}

	for _, text := range texts {
		for _, size := range sizes {
			chunks := ChunkText(text, size)
			assert.Equal(t, Normalize(text), strings.Join(chunks, ""),
				"size=%d", size)
		}
	}
}

func TestChunkTextNeverSplitsRunes(t *testing.T) {
	// 700 two-byte runes: a byte-offset window would cut mid-rune.
	chunks := ChunkText(strings.Repeat("é", 700), 601)
	require.Len(t, chunks, 2)

	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is invalid UTF-8", i)
	}
	assert.Equal(t, 601, utf8.RuneCountInString(chunks[0]), "window size counts runes")
	assert.Equal(t, 99, utf8.RuneCountInString(chunks[1]))
}

func TestChunkTextSizeBound(t *testing.T) {
	chunks := ChunkText(strings.Repeat("x", 1450), 600)
	require.Len(t, chunks, 3)

	for _, c := range chunks[:len(chunks)-1] {
		assert.Len(t, c, 600)
	}
	last := chunks[len(chunks)-1]
	assert.Greater(t, len(last), 0)
	assert.LessOrEqual(t, len(last), 600)
}

func TestChunkTextExactMultiple(t *testing.T) {
	chunks := ChunkText(strings.Repeat("y", 1200), 600)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 600)
	assert.Len(t, chunks[1], 600)
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 600))
	assert.Empty(t, ChunkText("   \n\t ", 600))
}
