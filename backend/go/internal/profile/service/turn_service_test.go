package service

import (
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/pkg/logger"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeExtractor struct {
	candidates []*models.CandidateFact
	err        error
}

func (f *fakeExtractor) Extract(ctx context.Context, turn *models.ConversationTurn, existing []*models.Fact) ([]*models.CandidateFact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func newTurnFixture(ext *fakeExtractor) (*fixture, *TurnService) {
	fx := newFixture()
	turns := NewTurnService(ext, fx.facts, fx.service, logger.New("test", "", ""), time.Second)
	return fx, turns
}

func TestProcessTurnRoutesCandidates(t *testing.T) {
	fx, turns := newTurnFixture(&fakeExtractor{candidates: []*models.CandidateFact{
		{FactType: models.FactTypeTimeline, Value: "3-6 months", Confidence: 0.9},
		{FactType: models.FactTypeDestination, Value: "Portugal", Confidence: 0.95, RequiresConfirmation: true},
	}})

	results, err := turns.ProcessTurn(context.Background(), &models.ConversationTurn{
		UserID:      "u1",
		UserMessage: "We want to move to Portugal in a few months",
		Source:      models.SourceVoice,
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Outcome != OutcomeCommitted {
		t.Errorf("timeline outcome = %s, want committed", results[0].Outcome)
	}
	if results[1].Outcome != OutcomeQueued {
		t.Errorf("destination outcome = %s, want queued", results[1].Outcome)
	}

	if value, _ := fx.facts.value("u1", models.FactTypeTimeline); value != "3-6 months" {
		t.Errorf("timeline value = %q, want 3-6 months", value)
	}
	if got := len(pendingFor(t, fx, "u1")); got != 1 {
		t.Errorf("pending count = %d, want 1", got)
	}
}

func TestProcessTurnTreatsExtractorErrorAsZeroCandidates(t *testing.T) {
	_, turns := newTurnFixture(&fakeExtractor{err: errors.New("model timeout")})

	results, err := turns.ProcessTurn(context.Background(), &models.ConversationTurn{UserID: "u1"})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v, extractor failure must not fail the turn", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestProcessTurnSkipsUnknownTypes(t *testing.T) {
	fx, turns := newTurnFixture(&fakeExtractor{candidates: []*models.CandidateFact{
		{FactType: "shoe_size", Value: "42", Confidence: 0.9},
		{FactType: models.FactTypeProfession, Value: "nurse", Confidence: 0.8},
	}})

	results, err := turns.ProcessTurn(context.Background(), &models.ConversationTurn{UserID: "u1"})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (unknown type skipped)", len(results))
	}
	if results[0].FactType != models.FactTypeProfession {
		t.Errorf("fact type = %s, want profession", results[0].FactType)
	}
	if _, ok := fx.facts.value("u1", "shoe_size"); ok {
		t.Error("unknown type must never reach the fact store")
	}
}
