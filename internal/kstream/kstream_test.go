package kstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsbot/internal/config"
	"hsbot/internal/model"
)

func TestEncodeEventFillsIdentity(t *testing.T) {
	msg, err := encodeEvent(model.SearchEvent{
		ChatID: 1001,
		Kind:   "card",
		Params: map[string]string{"cost_min": "3", "cost_max": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", string(msg.Key))

	evt, err := decodeEvent(msg)
	require.NoError(t, err)
	assert.Len(t, evt.ID, 36)
	assert.False(t, evt.Timestamp.IsZero())
	assert.Equal(t, "3", evt.Params["cost_max"])
}

func TestEncodeEventKeepsGivenIdentity(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg, err := encodeEvent(model.SearchEvent{ID: "fixed", Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, ts, msg.Time)

	evt, err := decodeEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, "fixed", evt.ID)
	assert.True(t, ts.Equal(evt.Timestamp))
}

func TestNewPublisherWithoutBrokerIsNoop(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewPublisher(config.Kafka{Topic: "hs.search.requests"}, logrus.NewEntry(logger))

	assert.NoError(t, p.PublishSearch(context.Background(), model.SearchEvent{Kind: "deck"}))
	assert.NoError(t, p.Close())
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "disabled")
}

func TestPublisherLogsLostBatches(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewPublisher(config.Kafka{Broker: "localhost:9092", Topic: "hs.search.requests"}, logrus.NewEntry(logger)).(*KafkaPublisher)
	t.Cleanup(func() { _ = p.Close() })
	require.NotNil(t, p.w.Completion)

	p.w.Completion(make([]kafka.Message, 2), nil)
	assert.Empty(t, hook.Entries)

	p.w.Completion(make([]kafka.Message, 3), errors.New("leader not available"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 3, hook.LastEntry().Data["messages"])
}
