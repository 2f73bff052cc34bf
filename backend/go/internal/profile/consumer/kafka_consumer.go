package consumer

import (
	"Relopilot_1.0/backend/go/internal/database/kafka"
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/internal/profile/service"
	"Relopilot_1.0/backend/go/pkg/logger"
	"context"
	"encoding/json"
)

// KafkaConsumer consumes conversation turns from a Kafka topic and feeds
// them through the TurnService.
type KafkaConsumer struct {
	kafkaClient *kafka.KafkaClient
	turnService *service.TurnService
	logger      *logger.Logger
}

// NewKafkaConsumer creates a new KafkaConsumer.
func NewKafkaConsumer(kafkaClient *kafka.KafkaClient, turnService *service.TurnService, logger *logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		kafkaClient: kafkaClient,
		turnService: turnService,
		logger:      logger,
	}
}

// Start starts the consumer loop. It stops when the context is cancelled.
func (c *KafkaConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.kafkaClient.Reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to fetch message")
				continue
			}

			var turn models.ConversationTurn
			if err := json.Unmarshal(msg.Value, &turn); err != nil {
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to unmarshal turn")
				continue
			}

			if turn.UserID == "" {
				c.logger.Warn("skipping turn without user_id")
			} else if _, err := c.turnService.ProcessTurn(ctx, &turn); err != nil {
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to process turn")
				continue
			}

			if err := c.kafkaClient.Reader.CommitMessages(ctx, msg); err != nil {
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to commit message")
			}
		}
	}()
}
