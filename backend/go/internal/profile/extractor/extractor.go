package extractor

import (
	"Relopilot_1.0/backend/go/internal/models"
	"context"
)

// Extractor proposes candidate facts for a single conversation turn, given
// the facts already known about the user. Implementations must tolerate
// malformed model output by returning an empty list rather than an error.
type Extractor interface {
	Extract(ctx context.Context, turn *models.ConversationTurn, existing []*models.Fact) ([]*models.CandidateFact, error)
}
