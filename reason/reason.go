package reason

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Builder chooses between the LLM plan source and the rule engine. The
// choice is all-or-nothing per invocation: any LLM failure means the
// whole result comes from the rules, with no retry and no mixing.
type Builder struct {
	planner PlanSource
	logger  *zap.Logger
}

// BuilderOption is a functional option for Builder
type BuilderOption func(*Builder)

// WithPlanner sets the LLM plan source. A nil planner means rules-only.
func WithPlanner(p PlanSource) BuilderOption {
	return func(b *Builder) {
		b.planner = p
	}
}

// WithBuilderLogger sets the logger
func WithBuilderLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a reasoning builder
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces a plan for the case. It always returns a usable result:
// provider failures degrade to the deterministic rule engine.
func (b *Builder) Build(ctx context.Context, scenario string, chunks []string, story string) *Result {
	if b.planner != nil {
		payload, err := b.planner.GeneratePlan(ctx, scenario, story, chunks)
		if err == nil && payload != nil {
			b.logger.Info("reasoning_llm_path",
				zap.Int("checklist", len(payload.Checklist)),
				zap.Int("timeline", len(payload.Timeline)),
				zap.Int("risks", len(payload.Risks)))
			return mapPlanPayload(payload, chunks)
		}
		b.logger.Warn("reasoning_llm_failed_falling_back", zap.Error(err))
	}

	return GenerateRules(scenario, story, chunks)
}

const llmSummary = "LifeBridge generated a plan from the uploaded documents and intake using a generative model. " +
	"It produced a checklist, a timeline, and a risk register. " +
	"Each item links to evidence snippets extracted from the documents."

// mapPlanPayload converts the untrusted provider payload into a Result.
// Missing fields get defaults instead of failing the plan, and evidence
// keywords resolve against the original chunk sequence, so indices are
// always in range.
func mapPlanPayload(payload *PlanPayload, chunks []string) *Result {
	res := &Result{Summary: llmSummary, Source: SourceLLM}

	for _, item := range payload.Checklist {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       defaultLabel(item.Label),
			Status:      normalizeStatus(item.Status),
			Notes:       item.Notes,
			EvidenceIdx: FindChunks(chunks, item.EvidenceKeywords, DefaultMaxEvidenceHits),
		})
	}

	for _, item := range payload.Timeline {
		owner := strings.TrimSpace(item.Owner)
		if owner == "" {
			owner = "user"
		}
		res.Timeline = append(res.Timeline, TimelineItem{
			Label:       defaultLabel(item.Label),
			DueDate:     item.DueDate,
			Owner:       owner,
			Notes:       item.Notes,
			EvidenceIdx: FindChunks(chunks, item.EvidenceKeywords, DefaultMaxEvidenceHits),
		})
	}

	for _, item := range payload.Risks {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = "review"
		}
		res.Risks = append(res.Risks, RiskItem{
			Category:    category,
			Severity:    normalizeSeverity(item.Severity),
			Statement:   defaultLabel(item.Statement),
			Reason:      item.Reason,
			EvidenceIdx: FindChunks(chunks, item.EvidenceKeywords, DefaultMaxEvidenceHits),
		})
	}

	return res
}

func defaultLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Review this item"
	}
	return label
}

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusInProgress:
		return StatusInProgress
	case StatusDone:
		return StatusDone
	default:
		return StatusTodo
	}
}

func normalizeSeverity(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
