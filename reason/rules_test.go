package reason

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checklistLabels(res *Result) []string {
	labels := make([]string, 0, len(res.Checklist))
	for _, item := range res.Checklist {
		labels = append(labels, item.Label)
	}
	return labels
}

func riskStatements(res *Result) []string {
	statements := make([]string, 0, len(res.Risks))
	for _, r := range res.Risks {
		statements = append(statements, r.Statement)
	}
	return statements
}

func TestRulesBaselineAlwaysPresent(t *testing.T) {
	res := GenerateRules("other", "", nil)

	require.Len(t, res.Checklist, 2)
	require.Len(t, res.Timeline, 1)
	assert.Equal(t, "Collect identity documents for each traveler", res.Checklist[0].Label)
	assert.Equal(t, "Collect proof of relationship or purpose", res.Checklist[1].Label)
	assert.Equal(t, "Review extracted fields and fix mismatches", res.Timeline[0].Label)
	assert.NotEmpty(t, res.Summary)
}

func TestRulesFamilyReunionWithoutRelationshipProof(t *testing.T) {
	res := GenerateRules("family_reunion", "", nil)

	assert.Contains(t, checklistLabels(res), "Prepare a short family context statement")

	var found *RiskItem
	for i := range res.Risks {
		if res.Risks[i].Category == "documentation" {
			found = &res.Risks[i]
		}
	}
	require.NotNil(t, found, "missing relationship proof risk expected")
	assert.Equal(t, SeverityHigh, found.Severity)
}

func TestRulesFamilyReunionWithBirthDocumentSuppressesRisk(t *testing.T) {
	res := GenerateRules("family_reunion", "", []string{"Attached is the birth certificate of the child"})

	for _, r := range res.Risks {
		assert.NotEqual(t, "Relationship proof may be missing or incomplete", r.Statement)
	}
}

func TestRulesJobOnboardingWithOfferLetter(t *testing.T) {
	res := GenerateRules("job_onboarding", "", []string{"We enclose your offer letter and employment terms"})

	assert.Contains(t, checklistLabels(res), "Collect offer letter and role details")
	assert.NotContains(t, riskStatements(res), "Offer letter not detected")
}

func TestRulesJobOnboardingWithoutOfferLetter(t *testing.T) {
	res := GenerateRules("job_onboarding", "", []string{"some unrelated scanned page"})
	assert.Contains(t, riskStatements(res), "Offer letter not detected")
}

func TestRulesH1BMissingStamp(t *testing.T) {
	res := GenerateRules("h1b_visa", "I have no stamp, it's not valid", nil)

	require.Contains(t, riskStatements(res), "Visa Stamp Required for Re-entry")
	for _, r := range res.Risks {
		if r.Statement == "Visa Stamp Required for Re-entry" {
			assert.Equal(t, SeverityHigh, r.Severity)
		}
	}

	var consular *TimelineItem
	for i := range res.Timeline {
		if res.Timeline[i].Label == "Book a consular visa stamping appointment" {
			consular = &res.Timeline[i]
		}
	}
	require.NotNil(t, consular)
	assert.Equal(t, "ASAP", consular.DueDate)
}

func TestRulesH1BWithValidStampNoTravelRisk(t *testing.T) {
	res := GenerateRules("h1b_visa", "", []string{"Visa stamp issued 2024, I-797 approval notice enclosed"})
	assert.NotContains(t, riskStatements(res), "Visa Stamp Required for Re-entry")
}

func TestRulesRemovalScenario(t *testing.T) {
	res := GenerateRules("status_problem", "I received a notice to appear", nil)

	assert.Contains(t, riskStatements(res), "Possible removal or status violation exposure")
	var attorney *TimelineItem
	for i := range res.Timeline {
		if res.Timeline[i].DueDate == "ASAP" {
			attorney = &res.Timeline[i]
		}
	}
	require.NotNil(t, attorney)
}

func TestRulesStudentScenario(t *testing.T) {
	res := GenerateRules("study", "", []string{"Enclosed is your enrollment letter from the university"})

	assert.Contains(t, checklistLabels(res), "Collect enrollment letter and program details")
	assert.NotContains(t, riskStatements(res), "Enrollment proof not detected")
}

func TestRulesMarriageScenarioMissingCertificate(t *testing.T) {
	res := GenerateRules("marriage", "", []string{"joint lease agreement"})
	assert.Contains(t, riskStatements(res), "Marriage evidence not detected")
}

func TestRulesExpirationRiskNeedsPassportMention(t *testing.T) {
	withBoth := GenerateRules("other", "", []string{"Passport valid until December 2026"})
	assert.Contains(t, riskStatements(withBoth), "Document expiration may cause delays")

	withoutPassport := GenerateRules("other", "", []string{"Lease valid until December 2026"})
	assert.NotContains(t, riskStatements(withoutPassport), "Document expiration may cause delays")
}

func TestRulesRisksNeverEmpty(t *testing.T) {
	res := GenerateRules("other", "", []string{"random unrelated text"})

	require.Len(t, res.Risks, 1, "only the generic risk should fire")
	assert.Equal(t, SeverityLow, res.Risks[0].Severity)
	assert.Equal(t, "review", res.Risks[0].Category)
}

func TestRulesDeterministicOrder(t *testing.T) {
	chunks := []string{"passport P1, offer letter attached, enrollment letter attached"}
	first := GenerateRules("family_reunion job study", "some story", chunks)
	second := GenerateRules("family_reunion job study", "some story", chunks)
	assert.Equal(t, first, second)
}

func TestRulesEvidenceIndicesInRange(t *testing.T) {
	chunks := []string{"passport", "offer", "enrollment", "marriage certificate"}
	res := GenerateRules("family job study marriage h1b", "no stamp", chunks)

	checkIdx := func(idx []int) {
		for _, i := range idx {
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, len(chunks))
		}
	}
	for _, item := range res.Checklist {
		checkIdx(item.EvidenceIdx)
	}
	for _, item := range res.Timeline {
		checkIdx(item.EvidenceIdx)
	}
	for _, item := range res.Risks {
		checkIdx(item.EvidenceIdx)
	}
}
