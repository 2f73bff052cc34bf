package store

import (
	"Relopilot_1.0/backend/go/internal/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no confirmation exists with the given id
	// for the acting user.
	ErrNotFound = errors.New("confirmation not found")
)

// ConfirmationStore persists PendingConfirmation records. Resolved records are
// never deleted; they stay behind as the audit trail.
type ConfirmationStore interface {
	CreateSuperseding(ctx context.Context, confirmation *models.PendingConfirmation) (int64, error)
	GetByID(ctx context.Context, userID, id string) (*models.PendingConfirmation, error)
	List(ctx context.Context, userID string, status models.ConfirmationStatus) ([]*models.PendingConfirmation, error)
	ResolvePending(ctx context.Context, userID, id string, status models.ConfirmationStatus) (int64, error)
}

// MySQLConfirmationStore is a ConfirmationStore backed by MySQL. All state
// transitions are conditional updates guarded by status = 'pending', so a
// stale resolve or a concurrent supersede affects zero rows instead of
// double-firing.
type MySQLConfirmationStore struct {
	db *gorm.DB
}

// NewMySQLConfirmationStore creates a new MySQLConfirmationStore.
func NewMySQLConfirmationStore(db *gorm.DB) *MySQLConfirmationStore {
	return &MySQLConfirmationStore{db: db}
}

// CreateSuperseding closes any still-pending record for the new confirmation's
// (user, factType) as rejected with reason "superseded" and inserts the new
// record, in a single transaction. Either both writes land or neither does, so
// a failed insert can never leave the slot without a pending confirmation.
// Returns the number of rows closed.
func (s *MySQLConfirmationStore) CreateSuperseding(ctx context.Context, confirmation *models.PendingConfirmation) (int64, error) {
	var superseded int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PendingConfirmation{}).
			Where("user_id = ? AND fact_type = ? AND status = ?",
				confirmation.UserID, confirmation.FactType, models.ConfirmationPending).
			Updates(map[string]interface{}{
				"status": models.ConfirmationRejected,
				"reason": models.ReasonSuperseded,
			})
		if result.Error != nil {
			return result.Error
		}
		superseded = result.RowsAffected
		return tx.Create(confirmation).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create %s confirmation: %w", confirmation.FactType, err)
	}
	return superseded, nil
}

// GetByID loads one confirmation, scoped to the acting user so a caller can
// never read another user's record.
func (s *MySQLConfirmationStore) GetByID(ctx context.Context, userID, id string) (*models.PendingConfirmation, error) {
	var confirmation models.PendingConfirmation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&confirmation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmation %s: %w", id, err)
	}
	return &confirmation, nil
}

// List returns a user's confirmations, most recent first. An empty status
// returns all of them.
func (s *MySQLConfirmationStore) List(ctx context.Context, userID string, status models.ConfirmationStatus) ([]*models.PendingConfirmation, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var confirmations []*models.PendingConfirmation
	if err := query.Order("created_at DESC").Find(&confirmations).Error; err != nil {
		return nil, fmt.Errorf("failed to list confirmations for user %s: %w", userID, err)
	}
	return confirmations, nil
}

// ResolvePending flips a record from pending to the given terminal status.
// Zero rows affected means the record was already resolved by someone else.
func (s *MySQLConfirmationStore) ResolvePending(ctx context.Context, userID, id string, status models.ConfirmationStatus) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.PendingConfirmation{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.ConfirmationPending).
		Update("status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to resolve confirmation %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
