package reason

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindChunksMatchesInScanOrder(t *testing.T) {
	chunks := []string{
		"The passport number is P123",
		"nothing relevant here",
		"PASSPORT copy attached",
		"passport again",
		"and one more passport mention",
	}

	hits := FindChunks(chunks, []string{"passport"}, 3)
	assert.Equal(t, []int{0, 2, 3}, hits, "ascending order, capped at maxHits")
}

func TestFindChunksDeterministic(t *testing.T) {
	chunks := []string{"alpha beta", "gamma delta", "beta epsilon"}
	keywords := []string{"beta", "delta"}

	first := FindChunks(chunks, keywords, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FindChunks(chunks, keywords, 3))
	}
}

func TestFindChunksNormalizesBothSides(t *testing.T) {
	chunks := []string{"Birth   Certificate\nenclosed"}
	hits := FindChunks(chunks, []string{"birth certificate"}, 3)
	assert.Equal(t, []int{0}, hits)
}

func TestFindChunksNoMatch(t *testing.T) {
	hits := FindChunks([]string{"abc", "def"}, []string{"zzz"}, 3)
	assert.Empty(t, hits)
}

func TestFindChunksIgnoresEmptyKeywords(t *testing.T) {
	hits := FindChunks([]string{"anything at all"}, []string{"", "   ", "\t"}, 3)
	assert.Empty(t, hits, "blank keywords must not match every chunk")
}

func TestFindChunksEmptyInputs(t *testing.T) {
	assert.Empty(t, FindChunks(nil, []string{"x"}, 3))
	assert.Empty(t, FindChunks([]string{"x"}, nil, 3))
}
