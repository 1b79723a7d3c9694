package models

import (
	"time"

	"github.com/google/uuid"
)

// Case represents an immigration case entity
type Case struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	Title     string     `json:"title"`
	Scenario  string     `json:"scenario"`
	UserStory string     `json:"user_story"`
	Summary   string     `json:"summary"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Known scenario identifiers. Cases may carry free-form scenarios too;
// these are the ones the rule engine has dedicated playbooks for.
const (
	ScenarioFamilyReunion = "family_reunion"
	ScenarioJobRelocation = "job_relocation"
	ScenarioRemoval       = "removal_defense"
	ScenarioStudent       = "student"
	ScenarioMarriage      = "marriage"
	ScenarioH1BIssue      = "h1b_issue"
	ScenarioOther         = "other"
)
