package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ethanrimes/tiktok-recommendation-engine/internal/config"
	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// RankedEvent is published once per completed ranking run so downstream
// consumers (analytics, notification fan-out) see new recommendations
// without polling the store.
type RankedEvent struct {
	RunID           uuid.UUID               `json:"run_id"`
	Username        string                  `json:"username"`
	Recommendations []models.Recommendation `json:"recommendations"`
	CandidateCount  int                     `json:"candidate_count"`
	Timestamp       time.Time               `json:"timestamp"`
}

// Publisher writes ranking-run events to Kafka. A nil Publisher is valid
// and drops events, so the engine runs without a broker in development.
type Publisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewPublisher(cfg *config.Config, logger *logrus.Logger) (*Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topics.Recommendations,
		Balancer:     &kafka.Hash{}, // key by username so a user's runs stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &Publisher{writer: writer, logger: logger}, nil
}

func (p *Publisher) PublishRankedEvent(ctx context.Context, event RankedEvent) error {
	if p == nil {
		return nil
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ranked event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Username),
		Value: messageBytes,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(event.RunID.String())},
			{Key: "username", Value: []byte(event.Username)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("failed to publish ranked event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"run_id":   event.RunID,
		"username": event.Username,
		"count":    len(event.Recommendations),
	}).Debug("Published ranked event")

	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
