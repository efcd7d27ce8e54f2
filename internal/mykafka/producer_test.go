package mykafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/card_collection/pkg/logging"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent_EncodesJSONWithKey(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, topic: "user_events"}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := p.PublishEvent(context.Background(), "7", UserEvent{Type: EventUserLoggedIn, UserID: 7, Username: "alice", OccurredAt: at})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "7", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, EventUserLoggedIn, got["type"])
	assert.EqualValues(t, 7, got["UserID"])
	assert.Equal(t, "alice", got["username"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_WrapsWriterError(t *testing.T) {
	p := &Producer{writer: &recordingWriter{err: errors.New("broker down")}, topic: "user_events"}

	err := p.PublishEvent(context.Background(), "1", UserEvent{Type: EventUserLoggedOut})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil, "user_events", nil)
	assert.Error(t, err)
}

func TestNewProducer_DoesNotBlockRequests(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProducer([]string{"localhost:9092"}, "user_events", logging.NewWithWriter(&buf, "info"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, w.Async)
	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	require.NotNil(t, w.Completion)

	w.Completion([]kafka.Message{{Key: []byte("1")}}, errors.New("broker down"))
	assert.Contains(t, buf.String(), "kafka_delivery_failed")
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), `"topic":"user_events"`)

	w.Completion([]kafka.Message{{Key: []byte("2")}}, nil)
	assert.Equal(t, 1, strings.Count(buf.String(), "kafka_delivery_failed"))
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	assert.NoError(t, p.PublishEvent(context.Background(), "1", UserEvent{}))
	assert.NoError(t, p.Close())
}
