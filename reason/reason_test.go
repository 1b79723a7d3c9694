package reason

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct {
	payload *PlanPayload
	err     error
	calls   int
}

func (s *stubPlanner) GeneratePlan(ctx context.Context, scenario, story string, chunks []string) (*PlanPayload, error) {
	s.calls++
	return s.payload, s.err
}

func TestBuildFallsBackToRulesOnPlannerError(t *testing.T) {
	planner := &stubPlanner{err: errors.New("quota exceeded")}
	b := NewBuilder(WithPlanner(planner))

	res := b.Build(context.Background(), "family_reunion", nil, "")

	assert.Equal(t, 1, planner.calls, "no retry within one invocation")
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Checklist)
	assert.NotEmpty(t, res.Timeline)
	assert.NotEmpty(t, res.Risks)
}

func TestBuildFallsBackToRulesOnNilPayload(t *testing.T) {
	b := NewBuilder(WithPlanner(&stubPlanner{}))
	res := b.Build(context.Background(), "other", nil, "")
	assert.NotEmpty(t, res.Risks, "rule engine guarantees a non-empty risk register")
}

func TestBuildWithoutPlannerUsesRules(t *testing.T) {
	b := NewBuilder()
	res := b.Build(context.Background(), "other", nil, "")
	assert.NotEmpty(t, res.Checklist)
}

func TestBuildUsesLLMResultWhenAvailable(t *testing.T) {
	payload := &PlanPayload{
		Checklist: []PlanChecklistItem{{
			Label:            "Gather passport scans",
			Status:           "in_progress",
			Notes:            "Both travelers.",
			EvidenceKeywords: []string{"passport"},
		}},
		Timeline: []PlanTimelineItem{{
			Label:            "Submit application",
			DueDate:          "2025-01-01",
			EvidenceKeywords: []string{"application"},
		}},
		Risks: []PlanRiskItem{{
			Statement:        "Funds proof may be thin",
			Severity:         "high",
			Category:         "financial",
			EvidenceKeywords: []string{"bank"},
		}},
	}
	chunks := []string{"passport P999 enclosed", "bank statement for March"}
	b := NewBuilder(WithPlanner(&stubPlanner{payload: payload}))

	res := b.Build(context.Background(), "family_reunion", chunks, "")

	require.Len(t, res.Checklist, 1)
	assert.Equal(t, "Gather passport scans", res.Checklist[0].Label)
	assert.Equal(t, StatusInProgress, res.Checklist[0].Status)
	assert.Equal(t, []int{0}, res.Checklist[0].EvidenceIdx)

	require.Len(t, res.Timeline, 1)
	assert.Equal(t, "user", res.Timeline[0].Owner, "missing owner defaults to user")

	require.Len(t, res.Risks, 1)
	assert.Equal(t, SeverityHigh, res.Risks[0].Severity)
	assert.Equal(t, []int{1}, res.Risks[0].EvidenceIdx)
}

func TestMapPlanPayloadSubstitutesDefaults(t *testing.T) {
	payload := &PlanPayload{
		Checklist: []PlanChecklistItem{{Status: "sideways"}},
		Risks:     []PlanRiskItem{{Statement: "Something", Severity: "catastrophic"}},
	}

	res := mapPlanPayload(payload, nil)

	require.Len(t, res.Checklist, 1)
	assert.Equal(t, "Review this item", res.Checklist[0].Label)
	assert.Equal(t, StatusTodo, res.Checklist[0].Status)

	require.Len(t, res.Risks, 1)
	assert.Equal(t, SeverityMedium, res.Risks[0].Severity)
	assert.Equal(t, "review", res.Risks[0].Category)
}

func TestMapPlanPayloadUnmatchedKeywordsYieldNoEvidence(t *testing.T) {
	payload := &PlanPayload{
		Checklist: []PlanChecklistItem{{
			Label:            "Anything",
			EvidenceKeywords: []string{"unicorn"},
		}},
	}

	res := mapPlanPayload(payload, []string{"passport", "bank"})

	require.Len(t, res.Checklist, 1)
	assert.Empty(t, res.Checklist[0].EvidenceIdx)
}
