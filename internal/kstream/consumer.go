package kstream

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"hsbot/internal/config"
	"hsbot/internal/model"
)

// SearchHandler processes one decoded event.
type SearchHandler func(ctx context.Context, evt model.SearchEvent) error

// kafkaReader creates a consumer group reader for the search topic.
func kafkaReader(cfg config.Kafka, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.Broker}, // segmentio/kafka-go: Kafka broker addresses
		Topic:          cfg.Topic,
		GroupID:        groupID,     // segmentio/kafka-go: consumer group, enables offset commits
		MinBytes:       1,           // events are small; do not wait to fill a batch
		MaxBytes:       1 << 20,
		CommitInterval: time.Second, // segmentio/kafka-go: auto-commit interval for offsets
	})
}

// ConsumeSearches reads search events until ctx is done, passing each to
// handle. Undecodable messages and handler failures are logged and skipped.
func ConsumeSearches(ctx context.Context, cfg config.Kafka, groupID string, log *logrus.Entry, handle SearchHandler) error {
	reader := kafkaReader(cfg, groupID)
	defer reader.Close()

	log.WithField("topic", cfg.Topic).Info("consuming search events")
	for {
		// segmentio/kafka-go: ReadMessage blocks until a message arrives and
		// commits offsets for the group.
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}
		evt, err := decodeEvent(msg)
		if err != nil {
			log.WithError(err).WithField("offset", msg.Offset).Warn("skipping malformed search event")
			continue
		}
		if err := handle(ctx, evt); err != nil {
			log.WithError(err).WithField("event_id", evt.ID).Error("search event handler failed")
		}
	}
}

func decodeEvent(msg kafka.Message) (model.SearchEvent, error) {
	var evt model.SearchEvent
	err := json.Unmarshal(msg.Value, &evt)
	return evt, err
}
