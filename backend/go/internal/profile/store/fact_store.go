package store

import (
	"Relopilot_1.0/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FactStore defines the read/write contract for the durable per-user fact table.
type FactStore interface {
	GetFacts(ctx context.Context, userID string) ([]*models.Fact, error)
	UpsertFact(ctx context.Context, userID string, factType models.FactType, value, source string) (*models.Fact, error)
}

// MySQLFactStore is a FactStore backed by MySQL, with an optional Redis
// read-through cache in front of GetFacts. The cache exists because the
// extractor reads the full fact list on every conversation turn.
type MySQLFactStore struct {
	db    *gorm.DB
	cache *redis.Client // nil disables caching
	ttl   time.Duration
}

// NewMySQLFactStore creates a new MySQLFactStore. cache may be nil.
func NewMySQLFactStore(db *gorm.DB, cache *redis.Client, cacheTTL time.Duration) *MySQLFactStore {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &MySQLFactStore{db: db, cache: cache, ttl: cacheTTL}
}

func factsCacheKey(userID string) string {
	return "profile:facts:" + userID
}

// GetFacts returns all facts for a user, at most one per fact type.
func (s *MySQLFactStore) GetFacts(ctx context.Context, userID string) ([]*models.Fact, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, factsCacheKey(userID)).Bytes(); err == nil {
			var facts []*models.Fact
			if err := json.Unmarshal(cached, &facts); err == nil {
				return facts, nil
			}
		}
	}

	var facts []*models.Fact
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("fact_type").
		Find(&facts).Error; err != nil {
		return nil, fmt.Errorf("failed to load facts for user %s: %w", userID, err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(facts); err == nil {
			// Cache write failures are ignored; the next read goes to MySQL.
			s.cache.Set(ctx, factsCacheKey(userID), encoded, s.ttl)
		}
	}

	return facts, nil
}

// UpsertFact writes a fact keyed by (user_id, fact_type). A second call with
// the same value is a no-op in effect: the row stays unique and only
// updated_at moves forward.
func (s *MySQLFactStore) UpsertFact(ctx context.Context, userID string, factType models.FactType, value, source string) (*models.Fact, error) {
	fact := models.Fact{
		UserID:   userID,
		FactType: factType,
		Value:    value,
		Source:   source,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "fact_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"source":     source,
			"updated_at": time.Now(),
		}),
	}).Create(&fact).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert fact %s for user %s: %w", factType, userID, err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, factsCacheKey(userID))
	}

	return &fact, nil
}
