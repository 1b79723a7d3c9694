package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"lifebridge-backend/reason"
)

// Context budgets. The hosted provider gets a generous window; the local
// provider runs smaller models and gets a tighter one.
const (
	geminiContextChunks = 20
	geminiContextChars  = 30000
	localContextChunks  = 10
	localContextChars   = 8000

	truncationMarker = "...(truncated)"
)

const planSystemPrompt = "You are an expert immigration legal assistant. " +
	"Your task is to analyze the user's situation and documents to generate a precise, actionable case plan."

const chatSystemPrompt = "You are Samaritan, a compassionate and knowledgeable immigration assistant. " +
	"Answer the user's question concisely. If you don't know, suggest they check the 'Resources' or 'Attorneys' section."

// buildPlanContext concatenates at most maxChunks chunks and truncates
// the result to maxChars characters, appending a marker when it was cut.
// The cut lands on a rune boundary so the prompt stays valid UTF-8.
func buildPlanContext(chunks []string, maxChunks, maxChars int) string {
	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	context := strings.Join(chunks, "\n")
	if runes := []rune(context); len(runes) > maxChars {
		context = string(runes[:maxChars]) + truncationMarker
	}
	return context
}

// buildPlanPrompt renders the structured-output request. The provider is
// asked for JSON only; decodePlanPayload tolerates fenced output anyway.
func buildPlanPrompt(scenario, story string, chunks []string, maxChunks, maxChars int) string {
	return fmt.Sprintf(`Context:
- User Scenario: %s
- User Story: %s
- Document Extracts:
%s

Output Format (JSON Only):
{
  "checklist": [
    { "label": "Action Item Title", "notes": "Detailed instructions", "status": "todo", "evidence_keywords": ["keyword1", "keyword2"] }
  ],
  "timeline": [
    { "label": "Task Title", "due_date": "Date or Timeframe", "owner": "user", "notes": "Why this matters", "evidence_keywords": ["keyword"] }
  ],
  "risks": [
    { "category": "category_name", "severity": "high/medium/low", "statement": "Risk Title", "reason": "Explanation why", "evidence_keywords": ["keyword"] }
  ]
}

Instructions:
1. Analyze the User Story heavily. If they say "I don't have a stamp", that is a critical fact.
2. Cross-reference with Document Extracts. If a document is mentioned but not found, flag it as a risk.
3. Be specific. Do not give generic advice. Give advice tailored to the visible facts.
4. For "evidence_keywords", return 2-3 unique words from the source text that justify your finding.`,
		scenario, story, buildPlanContext(chunks, maxChunks, maxChars))
}

// decodePlanPayload parses a provider response as a plan payload. Models
// sometimes wrap JSON in markdown fences or preamble text, so parsing is
// lenient: strip fences, then fall back to the outermost object.
func decodePlanPayload(text string) (*reason.PlanPayload, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var payload reason.PlanPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return &payload, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("decode plan payload: no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode plan payload: %w", err)
	}
	return &payload, nil
}
