package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanContextRespectsChunkBudget(t *testing.T) {
	chunks := []string{"one", "two", "three", "four"}
	out := buildPlanContext(chunks, 2, 1000)
	assert.Equal(t, "one\ntwo", out)
}

func TestBuildPlanContextTruncatesWithMarker(t *testing.T) {
	chunks := []string{strings.Repeat("a", 50)}
	out := buildPlanContext(chunks, 10, 20)
	assert.True(t, strings.HasSuffix(out, truncationMarker))
	assert.Len(t, out, 20+len(truncationMarker))
}

func TestBuildPlanContextTruncatesOnRuneBoundary(t *testing.T) {
	chunks := []string{strings.Repeat("é", 50)}
	out := buildPlanContext(chunks, 10, 20)

	assert.True(t, utf8.ValidString(out), "truncation must not cut a rune in half")
	assert.True(t, strings.HasSuffix(out, truncationMarker))
	assert.Equal(t, 20, utf8.RuneCountInString(strings.TrimSuffix(out, truncationMarker)))
}

func TestBuildPlanContextNoMarkerWithinBudget(t *testing.T) {
	out := buildPlanContext([]string{"short"}, 10, 1000)
	assert.Equal(t, "short", out)
}

func TestBuildPlanPromptEmbedsInputs(t *testing.T) {
	prompt := buildPlanPrompt("h1b_issue", "I lost my stamp", []string{"visa record"}, 10, 1000)
	assert.Contains(t, prompt, "h1b_issue")
	assert.Contains(t, prompt, "I lost my stamp")
	assert.Contains(t, prompt, "visa record")
	assert.Contains(t, prompt, "evidence_keywords")
}

func TestDecodePlanPayloadPlainJSON(t *testing.T) {
	payload, err := decodePlanPayload(`{"checklist":[{"label":"Do it"}]}`)
	require.NoError(t, err)
	require.Len(t, payload.Checklist, 1)
	assert.Equal(t, "Do it", payload.Checklist[0].Label)
}

func TestDecodePlanPayloadStripsMarkdownFences(t *testing.T) {
	text := "```json\n{\"risks\":[{\"statement\":\"Gap\",\"severity\":\"high\"}]}\n```"
	payload, err := decodePlanPayload(text)
	require.NoError(t, err)
	require.Len(t, payload.Risks, 1)
	assert.Equal(t, "Gap", payload.Risks[0].Statement)
}

func TestDecodePlanPayloadRecoversFromPreamble(t *testing.T) {
	text := `Here is your plan: {"timeline":[{"label":"File form","due_date":"ASAP"}]} Hope that helps.`
	payload, err := decodePlanPayload(text)
	require.NoError(t, err)
	require.Len(t, payload.Timeline, 1)
	assert.Equal(t, "ASAP", payload.Timeline[0].DueDate)
}

func TestDecodePlanPayloadRejectsGarbage(t *testing.T) {
	_, err := decodePlanPayload("no json here at all")
	assert.Error(t, err)

	_, err = decodePlanPayload("{broken")
	assert.Error(t, err)
}
