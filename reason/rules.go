package reason

import "strings"

const ruleSummary = "LifeBridge generated a plan from the uploaded documents and intake. " +
	"It produced a checklist, a timeline, and a risk register. " +
	"Each item links to evidence snippets extracted from the documents."

// GenerateRules builds a case plan deterministically: two baseline
// checklist items and one baseline timeline item, then an ordered set of
// independent scenario/content trigger rules. Later rules never remove
// earlier items, and the risk register is never left empty. No I/O, no
// failure modes.
func GenerateRules(scenario, story string, chunks []string) *Result {
	scenarioN := normalizeLower(scenario)
	corpus := normalizeLower(strings.Join(chunks, " ") + " " + story)

	hasAny := func(terms ...string) bool {
		for _, t := range terms {
			if nt := normalizeLower(t); nt != "" && strings.Contains(corpus, nt) {
				return true
			}
		}
		return false
	}
	scenarioHas := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(scenarioN, normalizeLower(t)) {
				return true
			}
		}
		return false
	}
	evidence := func(keywords ...string) []int {
		return FindChunks(chunks, keywords, DefaultMaxEvidenceHits)
	}

	res := &Result{Summary: ruleSummary, Source: SourceRules}

	// Universal baseline
	res.Checklist = append(res.Checklist, ChecklistItem{
		Label:       "Collect identity documents for each traveler",
		Status:      StatusTodo,
		Notes:       "Use passports or national IDs. Ensure names and dates match across documents.",
		EvidenceIdx: evidence("passport", "id", "date of birth", "name"),
	})
	res.Checklist = append(res.Checklist, ChecklistItem{
		Label:       "Collect proof of relationship or purpose",
		Status:      StatusTodo,
		Notes:       "Examples: birth certificate, marriage certificate, invitation letter, or enrollment letter.",
		EvidenceIdx: evidence("birth", "marriage", "invitation", "enrollment"),
	})
	res.Timeline = append(res.Timeline, TimelineItem{
		Label:       "Review extracted fields and fix mismatches",
		Owner:       "user",
		Notes:       "Confirm names, IDs, and dates. Correct errors before submitting anything.",
		EvidenceIdx: evidence("name", "passport", "id", "dob"),
	})

	// Family reunion
	if scenarioHas("family", "reunion") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Prepare a short family context statement",
			Status:      StatusTodo,
			Notes:       "One page. Explain who is traveling, who they will stay with, and the dates.",
			EvidenceIdx: evidence("relationship", "address", "stay", "family"),
		})
		res.Timeline = append(res.Timeline, TimelineItem{
			Label:       "Confirm travel dates and dependent needs",
			Owner:       "user",
			Notes:       "Capture preferred travel window and constraints like school schedule.",
			EvidenceIdx: evidence("date", "school", "travel"),
		})
		if !hasAny("birth certificate", "certificate of birth", "birth") {
			res.Risks = append(res.Risks, RiskItem{
				Category:  "documentation",
				Severity:  SeverityHigh,
				Statement: "Relationship proof may be missing or incomplete",
				Reason:    "The extracted text does not clearly show a birth or relationship document.",
			})
		}
	}

	// Job onboarding / hiring
	if scenarioHas("job", "onboarding", "hiring") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Collect offer letter and role details",
			Status:      StatusTodo,
			Notes:       "Include job title, start date, compensation, and location.",
			EvidenceIdx: evidence("offer", "employment", "salary", "start date"),
		})
		if !hasAny("offer", "employment") {
			res.Risks = append(res.Risks, RiskItem{
				Category:    "readiness",
				Severity:    SeverityMedium,
				Statement:   "Offer letter not detected",
				Reason:      "The system did not find strong signals for an offer or employment letter.",
				EvidenceIdx: evidence("offer", "employment"),
			})
		}
	}

	// Removal / status problems
	if scenarioHas("deport", "removal", "status_problem", "status problem") ||
		hasAny("deportation", "removal proceedings", "notice to appear") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Collect all government notices and correspondence",
			Status:      StatusTodo,
			Notes:       "Include any Notice to Appear, RFE, denial letter, or hearing notice, with dates.",
			EvidenceIdx: evidence("notice", "hearing", "rfe", "denial"),
		})
		res.Timeline = append(res.Timeline, TimelineItem{
			Label:       "Consult an accredited attorney or representative",
			DueDate:     "ASAP",
			Owner:       "user",
			Notes:       "Status problems have hard deadlines. Bring every notice to the consultation.",
			EvidenceIdx: evidence("notice", "deadline", "hearing"),
		})
		res.Risks = append(res.Risks, RiskItem{
			Category:    "legal",
			Severity:    SeverityHigh,
			Statement:   "Possible removal or status violation exposure",
			Reason:      "The scenario or documents reference removal proceedings or a status problem. This is a heuristic flag, not legal advice.",
			EvidenceIdx: evidence("deportation", "removal", "notice to appear", "out of status"),
		})
	}

	// Study / student
	if scenarioHas("study", "student") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Collect enrollment letter and program details",
			Status:      StatusTodo,
			Notes:       "Include the admission or enrollment letter, program dates, and the I-20 or equivalent form.",
			EvidenceIdx: evidence("enrollment", "admission", "i-20", "university", "school"),
		})
		res.Timeline = append(res.Timeline, TimelineItem{
			Label:       "Verify program start date and fee payments",
			Owner:       "user",
			Notes:       "Confirm the program start date and that any SEVIS or registration fees are paid.",
			EvidenceIdx: evidence("start date", "sevis", "tuition", "fee"),
		})
		if !hasAny("enrollment", "admission", "i-20") {
			res.Risks = append(res.Risks, RiskItem{
				Category:  "documentation",
				Severity:  SeverityMedium,
				Statement: "Enrollment proof not detected",
				Reason:    "The extracted text does not clearly show an admission or enrollment document.",
			})
		}
	}

	// Marriage / spouse
	if scenarioHas("marriage", "spouse") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Collect marriage certificate and joint records",
			Status:      StatusTodo,
			Notes:       "Joint leases, bank statements, or photos help establish the relationship is genuine.",
			EvidenceIdx: evidence("marriage", "certificate", "joint", "lease"),
		})
		if !hasAny("marriage certificate", "marriage") {
			res.Risks = append(res.Risks, RiskItem{
				Category:  "documentation",
				Severity:  SeverityMedium,
				Statement: "Marriage evidence not detected",
				Reason:    "The extracted text does not clearly show a marriage document.",
			})
		}
	}

	// H-1B / work visa
	if scenarioHas("h1b", "h-1b", "work_visa", "work visa") {
		res.Checklist = append(res.Checklist, ChecklistItem{
			Label:       "Collect H-1B approval notice and employment records",
			Status:      StatusTodo,
			Notes:       "Include the I-797 approval notice, LCA, and recent pay statements.",
			EvidenceIdx: evidence("i-797", "approval", "lca", "pay"),
		})
		if hasAny("no stamp", "not valid", "expired visa", "expired stamp") {
			res.Risks = append(res.Risks, RiskItem{
				Category:    "travel",
				Severity:    SeverityHigh,
				Statement:   "Visa Stamp Required for Re-entry",
				Reason:      "The intake indicates the visa stamp is missing or no longer valid. Re-entering without a valid stamp is not possible.",
				EvidenceIdx: evidence("stamp", "visa", "valid"),
			})
			res.Timeline = append(res.Timeline, TimelineItem{
				Label:       "Book a consular visa stamping appointment",
				DueDate:     "ASAP",
				Owner:       "user",
				Notes:       "Appointment backlogs vary by consulate. Do this before planning any travel.",
				EvidenceIdx: evidence("stamp", "appointment", "consulate"),
			})
		}
	}

	// General risks
	if hasAny("expire", "expiration", "valid until") && hasAny("passport") {
		res.Risks = append(res.Risks, RiskItem{
			Category:    "documentation",
			Severity:    SeverityMedium,
			Statement:   "Document expiration may cause delays",
			Reason:      "At least one document references an expiration or validity window.",
			EvidenceIdx: FindChunks(chunks, []string{"expire", "expiration", "valid until", "validity"}, 5),
		})
	}

	if len(res.Risks) == 0 {
		res.Risks = append(res.Risks, RiskItem{
			Category:  "review",
			Severity:  SeverityLow,
			Statement: "No critical conflicts detected in this prototype run",
			Reason:    "This prototype uses conservative checks. Add more documents for deeper analysis.",
		})
	}

	return res
}
