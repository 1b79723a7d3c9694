package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisSource records which engine produced a case plan.
type AnalysisSource string

const (
	SourceLLM   AnalysisSource = "llm"
	SourceRules AnalysisSource = "rules"
)

// ChecklistItem is one actionable step of a case plan.
type ChecklistItem struct {
	ID               uuid.UUID   `json:"id"`
	CaseID           uuid.UUID   `json:"case_id"`
	Label            string      `json:"label"`
	Status           string      `json:"status"`
	Notes            string      `json:"notes"`
	EvidenceChunkIDs []uuid.UUID `json:"evidence_chunk_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TimelineItem is one dated task of a case plan.
type TimelineItem struct {
	ID               uuid.UUID   `json:"id"`
	CaseID           uuid.UUID   `json:"case_id"`
	Label            string      `json:"label"`
	DueDate          string      `json:"due_date"`
	Owner            string      `json:"owner"`
	Status           string      `json:"status"`
	Notes            string      `json:"notes"`
	EvidenceChunkIDs []uuid.UUID `json:"evidence_chunk_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Risk is one entry of a case's risk register.
type Risk struct {
	ID               uuid.UUID   `json:"id"`
	CaseID           uuid.UUID   `json:"case_id"`
	Category         string      `json:"category"`
	Severity         string      `json:"severity"`
	Statement        string      `json:"statement"`
	Reason           string      `json:"reason"`
	EvidenceChunkIDs []uuid.UUID `json:"evidence_chunk_ids"`
	CreatedAt        time.Time   `json:"created_at"`
}

// CaseOutputs bundles everything an analysis produced for a case.
type CaseOutputs struct {
	Summary   string           `json:"summary"`
	Source    AnalysisSource   `json:"source"`
	Checklist []*ChecklistItem `json:"checklist"`
	Timeline  []*TimelineItem  `json:"timeline"`
	Risks     []*Risk          `json:"risks"`
}
