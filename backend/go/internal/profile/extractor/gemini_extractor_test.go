package extractor

import (
	"Relopilot_1.0/backend/go/internal/models"
	"testing"
)

func TestParseCandidates(t *testing.T) {
	raw := `{"facts": [
		{"fact_type": "destination", "value": "Portugal", "confidence": 0.95, "requires_confirmation": true, "context": "wants to move to Lisbon"},
		{"fact_type": "timeline", "value": "3-6 months", "confidence": 0.9, "requires_confirmation": false}
	]}`

	candidates := ParseCandidates(raw)
	if len(candidates) != 2 {
		t.Fatalf("len = %d, want 2", len(candidates))
	}
	if candidates[0].FactType != models.FactTypeDestination || candidates[0].Value != "Portugal" {
		t.Errorf("first candidate = %+v", candidates[0])
	}
	if !candidates[0].RequiresConfirmation {
		t.Error("first candidate must require confirmation")
	}
	if candidates[1].RequiresConfirmation {
		t.Error("second candidate must not require confirmation")
	}
}

func TestParseCandidatesStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"facts\": [{\"fact_type\": \"budget\", \"value\": \"2000 EUR\", \"confidence\": 0.8}]}\n```"

	candidates := ParseCandidates(raw)
	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1", len(candidates))
	}
	if candidates[0].FactType != models.FactTypeBudget {
		t.Errorf("fact type = %s, want budget", candidates[0].FactType)
	}
}

func TestParseCandidatesToleratesMalformedOutput(t *testing.T) {
	for _, raw := range []string{"", "not json at all", `{"facts": "oops"}`, "```\n```"} {
		if candidates := ParseCandidates(raw); len(candidates) != 0 {
			t.Errorf("ParseCandidates(%q) = %d candidates, want 0", raw, len(candidates))
		}
	}
}

func TestParseCandidatesDropsIncompleteEntries(t *testing.T) {
	raw := `{"facts": [
		{"fact_type": "", "value": "Portugal", "confidence": 0.9},
		{"fact_type": "destination", "value": "", "confidence": 0.9},
		{"fact_type": "destination", "value": "Portugal", "confidence": 0.9}
	]}`

	candidates := ParseCandidates(raw)
	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1", len(candidates))
	}
}
