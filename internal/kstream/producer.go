// Package kstream carries search audit events over Kafka.
package kstream

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"hsbot/internal/config"
	"hsbot/internal/model"
)

// Publisher emits one SearchEvent per answered search.
type Publisher interface {
	PublishSearch(ctx context.Context, evt model.SearchEvent) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a no-op one when no broker is
// configured.
func NewPublisher(cfg config.Kafka, log *logrus.Entry) Publisher {
	if cfg.Broker == "" {
		log.Info("search events disabled: KAFKA_BROKER not set")
		return nopPublisher{}
	}
	p := &KafkaPublisher{log: log}
	p.w = kafkaWriter(cfg.Broker, cfg.Topic, p.completed)
	return p
}

// kafkaWriter constructs a long-lived producer. Writes are async; delivery
// failures are reported to completion.
func kafkaWriter(broker, topic string, completion func([]kafka.Message, error)) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),   // segmentio/kafka-go: TCP address for Kafka broker
		Topic:        topic,               // search audit topic
		Balancer:     &kafka.LeastBytes{}, // segmentio/kafka-go: partition selection strategy
		RequiredAcks: kafka.RequireOne,    // segmentio/kafka-go: wait for leader ack only
		Async:        true,                // segmentio/kafka-go: non-blocking writes
		BatchTimeout: 50 * time.Millisecond,
		Completion:   completion, // segmentio/kafka-go: called once per async batch
	}
}

// KafkaPublisher writes events keyed by chat id, so one conversation's events
// stay ordered within a partition.
type KafkaPublisher struct {
	w   *kafka.Writer
	log *logrus.Entry
}

func (p *KafkaPublisher) PublishSearch(ctx context.Context, evt model.SearchEvent) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	// segmentio/kafka-go: with Async set WriteMessages only enqueues.
	return p.w.WriteMessages(ctx, msg)
}

// completed logs batches the broker did not accept.
func (p *KafkaPublisher) completed(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	p.log.WithError(err).WithField("messages", len(messages)).Warn("search events lost")
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// encodeEvent fills in the id and timestamp when missing and builds the
// Kafka message.
func encodeEvent(evt model.SearchEvent) (kafka.Message, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.ChatID, 10)),
		Value: data,
		Time:  evt.Timestamp,
	}, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishSearch(context.Context, model.SearchEvent) error { return nil }

func (nopPublisher) Close() error { return nil }
