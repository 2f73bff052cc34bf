package service

import (
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/internal/profile/notify"
	"Relopilot_1.0/backend/go/internal/profile/store"
	"Relopilot_1.0/backend/go/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IntakeOutcome tells the caller what happened to a candidate fact.
type IntakeOutcome string

const (
	OutcomeCommitted IntakeOutcome = "committed" // written straight to the stores
	OutcomeQueued    IntakeOutcome = "queued"    // held for human confirmation
	OutcomeDiscarded IntakeOutcome = "discarded" // too low-value to act on
)

// Resolve actions accepted from the reviewer surface.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

var (
	// ErrUnknownFactType rejects candidates whose type is not in the
	// recognized enumeration.
	ErrUnknownFactType = errors.New("unknown fact type")

	// ErrInvalidAction rejects resolve actions other than accept/reject.
	ErrInvalidAction = errors.New("invalid resolve action")

	// ErrAlreadyResolved is returned for a resolve attempt on a record that
	// already reached a terminal status.
	ErrAlreadyResolved = errors.New("confirmation already resolved")
)

// DefaultMinConfidence is the floor below which an unconfirmed candidate is
// silently discarded.
const DefaultMinConfidence = 0.3

// ConfirmationService is the confirmation queue state machine. It decides
// auto-commit versus hold-for-review at intake, owns the pending records, and
// is the single path through which facts reach the fact store and the graph.
type ConfirmationService struct {
	facts         store.FactStore
	confirmations store.ConfirmationStore
	graph         store.GraphStore
	hub           *notify.Hub
	logger        *logger.Logger
	minConfidence float64

	// 同一 (user_id, fact_type) 的入队操作串行执行，
	// 避免 supersede 检查与创建之间的竞态产生两条 pending 记录。
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewConfirmationService creates a new ConfirmationService.
func NewConfirmationService(facts store.FactStore, confirmations store.ConfirmationStore, graph store.GraphStore, hub *notify.Hub, logger *logger.Logger, minConfidence float64) *ConfirmationService {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &ConfirmationService{
		facts:         facts,
		confirmations: confirmations,
		graph:         graph,
		hub:           hub,
		logger:        logger,
		minConfidence: minConfidence,
		keyLocks:      make(map[string]*sync.Mutex),
	}
}

func (s *ConfirmationService) keyLock(userID string, factType models.FactType) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "/" + string(factType)
	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	return lock
}

// Intake routes one candidate fact: reject unknown types, discard low-value
// candidates, auto-commit safe ones, and hold the rest for review. The
// new_confirmation event is published only after the pending record is
// durably created, so a reviewer reacting to the event can always fetch it.
func (s *ConfirmationService) Intake(ctx context.Context, userID string, candidate *models.CandidateFact, source string) (IntakeOutcome, error) {
	if !models.RecognizedFactType(candidate.FactType) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFactType, candidate.FactType)
	}

	lock := s.keyLock(userID, candidate.FactType)
	lock.Lock()
	defer lock.Unlock()

	if candidate.Confidence < s.minConfidence && !candidate.RequiresConfirmation {
		s.logger.WithPayload(map[string]interface{}{
			"fact_type":  candidate.FactType,
			"confidence": candidate.Confidence,
		}).Debug("discarding low-confidence candidate")
		return OutcomeDiscarded, nil
	}

	currentValue, err := s.currentValue(ctx, userID, candidate.FactType)
	if err != nil {
		return "", err
	}

	// Auto-commit only when nothing the user already stated would be
	// overwritten: the type is new, or the value is unchanged.
	unchanged := currentValue == nil || *currentValue == candidate.Value
	if !candidate.RequiresConfirmation && unchanged {
		if err := s.Commit(ctx, userID, candidate.FactType, candidate.Value, source); err != nil {
			return "", err
		}
		return OutcomeCommitted, nil
	}

	// Hold path. The store closes any pending record of the same type as
	// "superseded" and inserts the new one in a single transaction, so a
	// failed insert never leaves the slot without a pending record.
	confirmation := &models.PendingConfirmation{
		ID:         uuid.New().String(),
		UserID:     userID,
		FactType:   candidate.FactType,
		OldValue:   currentValue,
		NewValue:   candidate.Value,
		Source:     source,
		Confidence: candidate.Confidence,
		Context:    candidate.Context,
		Status:     models.ConfirmationPending,
	}
	superseded, err := s.confirmations.CreateSuperseding(ctx, confirmation)
	if err != nil {
		return "", err
	}
	if superseded > 0 {
		s.logger.WithPayload(map[string]interface{}{
			"fact_type": candidate.FactType,
			"count":     superseded,
		}).Info("superseded pending confirmation")
	}

	s.hub.Publish(userID, &models.NotificationEvent{
		Type:         models.EventNewConfirmation,
		Confirmation: confirmation,
	})

	return OutcomeQueued, nil
}

// Resolve applies a reviewer decision. Accept commits the held value through
// the same routine as the auto-commit path; reject writes nothing. The status
// flip is visible before the commit attempt: a commit failure after accept is
// logged as a reconciliation item, never rolled back and never reported to
// the reviewer who already saw the resolution.
func (s *ConfirmationService) Resolve(ctx context.Context, userID, id, action string) (*models.PendingConfirmation, error) {
	var target models.ConfirmationStatus
	switch action {
	case ActionAccept:
		target = models.ConfirmationAccepted
	case ActionReject:
		target = models.ConfirmationRejected
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	confirmation, err := s.confirmations.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if confirmation.Status != models.ConfirmationPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, id, confirmation.Status)
	}

	rows, err := s.confirmations.ResolvePending(ctx, userID, id, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost a race with another resolver between the read and the flip.
		return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, id)
	}
	confirmation.Status = target

	if target == models.ConfirmationAccepted {
		if err := s.Commit(ctx, userID, confirmation.FactType, confirmation.NewValue, models.SourceConfirmed); err != nil {
			s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "store_error"}).
				WithPayload(map[string]interface{}{
					"confirmation_id": id,
					"fact_type":       confirmation.FactType,
				}).Error("store commit failed after accept, needs reconciliation")
		}
	}

	s.hub.Publish(userID, &models.NotificationEvent{
		Type: models.EventConfirmationResolved,
		Resolution: &models.ConfirmationResolution{
			ID:     confirmation.ID,
			Status: confirmation.Status,
		},
	})

	return confirmation, nil
}

// List returns a user's confirmation records for the reviewer's initial or
// reconnect fetch, most recent first.
func (s *ConfirmationService) List(ctx context.Context, userID string, status models.ConfirmationStatus) ([]*models.PendingConfirmation, error) {
	return s.confirmations.List(ctx, userID, status)
}

// Commit is the single choke point for durable fact writes. The fact store is
// authoritative and its failure is the operation's failure; the graph
// projection is best-effort and only logged.
func (s *ConfirmationService) Commit(ctx context.Context, userID string, factType models.FactType, value, source string) error {
	if _, err := s.facts.UpsertFact(ctx, userID, factType, value, source); err != nil {
		return fmt.Errorf("fact store commit failed: %w", err)
	}

	statement := fmt.Sprintf("User has %s: %s", factType, value)
	if err := s.graph.AddFact(ctx, userID, statement); err != nil {
		s.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "graph_error"}).
			WithPayload(map[string]interface{}{"fact_type": factType}).
			Warn("knowledge graph projection failed")
	}

	return nil
}

func (s *ConfirmationService) currentValue(ctx context.Context, userID string, factType models.FactType) (*string, error) {
	facts, err := s.facts.GetFacts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current facts: %w", err)
	}
	for _, fact := range facts {
		if fact.FactType == factType {
			value := fact.Value
			return &value, nil
		}
	}
	return nil, nil
}
