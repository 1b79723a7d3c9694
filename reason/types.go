// Package reason builds a structured case plan (checklist, timeline, risk
// register) from a case scenario, the user's story, and the evidence
// chunks extracted from uploaded documents. It prefers an LLM plan source
// and falls back to a deterministic rule engine, so an analysis always
// yields a usable result.
package reason

import "context"

// Checklist and timeline item statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Risk severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ChecklistItem is an action the user should take, with evidence chunk
// indices justifying it.
type ChecklistItem struct {
	Label       string
	Status      string
	Notes       string
	EvidenceIdx []int
}

// TimelineItem is a dated step in the case plan. DueDate is free text
// ("ASAP", "2 months before travel") rather than a parsed date.
type TimelineItem struct {
	Label       string
	DueDate     string
	Owner       string
	Notes       string
	EvidenceIdx []int
}

// RiskItem is a heuristic flag, not a legal determination.
type RiskItem struct {
	Category    string
	Severity    string
	Statement   string
	Reason      string
	EvidenceIdx []int
}

// Plan sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// Result is one full analysis run. Results replace prior results for a
// case wholesale; they are never merged.
type Result struct {
	Summary   string
	Source    string
	Checklist []ChecklistItem
	Timeline  []TimelineItem
	Risks     []RiskItem
}

// PlanSource produces a raw plan payload from a generative model. A nil
// payload or an error both mean "use the rule engine instead".
type PlanSource interface {
	GeneratePlan(ctx context.Context, scenario, story string, chunks []string) (*PlanPayload, error)
}

// PlanPayload is the untrusted JSON shape returned by a plan provider.
// Every field is optional; mapping substitutes defaults rather than
// rejecting the plan over one malformed item.
type PlanPayload struct {
	Checklist []PlanChecklistItem `json:"checklist"`
	Timeline  []PlanTimelineItem  `json:"timeline"`
	Risks     []PlanRiskItem      `json:"risks"`
}

// PlanChecklistItem is one checklist entry as returned by the provider.
type PlanChecklistItem struct {
	Label            string   `json:"label"`
	Status           string   `json:"status"`
	Notes            string   `json:"notes"`
	EvidenceKeywords []string `json:"evidence_keywords"`
}

// PlanTimelineItem is one timeline entry as returned by the provider.
type PlanTimelineItem struct {
	Label            string   `json:"label"`
	DueDate          string   `json:"due_date"`
	Owner            string   `json:"owner"`
	Notes            string   `json:"notes"`
	EvidenceKeywords []string `json:"evidence_keywords"`
}

// PlanRiskItem is one risk entry as returned by the provider.
type PlanRiskItem struct {
	Category         string   `json:"category"`
	Severity         string   `json:"severity"`
	Statement        string   `json:"statement"`
	Reason           string   `json:"reason"`
	EvidenceKeywords []string `json:"evidence_keywords"`
}
