package service

import (
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/internal/profile/extractor"
	"Relopilot_1.0/backend/go/internal/profile/store"
	"Relopilot_1.0/backend/go/pkg/logger"
	"context"
	"errors"
	"time"
)

// IntakeResult reports what happened to one extracted candidate.
type IntakeResult struct {
	FactType models.FactType `json:"fact_type"`
	Outcome  IntakeOutcome   `json:"outcome"`
}

// TurnService is the conversation-side entry point of the pipeline: it runs
// the extractor over a finished turn and feeds every candidate through the
// confirmation queue. Extractor trouble never fails the turn.
type TurnService struct {
	extractor     extractor.Extractor
	facts         store.FactStore
	confirmations *ConfirmationService
	logger        *logger.Logger
	timeout       time.Duration
}

// NewTurnService creates a new TurnService.
func NewTurnService(ext extractor.Extractor, facts store.FactStore, confirmations *ConfirmationService, logger *logger.Logger, timeout time.Duration) *TurnService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TurnService{
		extractor:     ext,
		facts:         facts,
		confirmations: confirmations,
		logger:        logger,
		timeout:       timeout,
	}
}

// ProcessTurn extracts candidate facts from one turn and routes each through
// intake. A timeout or error from the extractor is treated as zero
// candidates.
func (s *TurnService) ProcessTurn(ctx context.Context, turn *models.ConversationTurn) ([]IntakeResult, error) {
	existing, err := s.facts.GetFacts(ctx, turn.UserID)
	if err != nil {
		// Existing facts are extractor context only; extraction still works
		// without them.
		s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "store_error"}).
			Warn("failed to load existing facts for extraction context")
		existing = nil
	}

	extractCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.extractor.Extract(extractCtx, turn, existing)
	if err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "extractor_error"}).
			Warn("fact extraction failed, treating as zero candidates")
		return []IntakeResult{}, nil
	}

	source := turn.Source
	if source == "" {
		source = models.SourceChat
	}

	results := make([]IntakeResult, 0, len(candidates))
	for _, candidate := range candidates {
		outcome, err := s.confirmations.Intake(ctx, turn.UserID, candidate, source)
		if err != nil {
			if errors.Is(err, ErrUnknownFactType) {
				s.logger.WithPayload(map[string]interface{}{
					"fact_type": candidate.FactType,
				}).Warn("skipping candidate with unknown fact type")
			} else {
				s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "intake_error"}).
					Error("intake failed for candidate")
			}
			continue
		}
		results = append(results, IntakeResult{FactType: candidate.FactType, Outcome: outcome})
	}

	return results, nil
}
