package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func TestMultiPublisherFansOutAndJoinsErrors(t *testing.T) {
	ctx := context.Background()
	event := NewEvent(BlacklistAdded, "t1", "admin", nil)

	ok := &mockPublisher{}
	ok.On("Publish", ctx, "topic", event).Return(nil)
	failing := &mockPublisher{}
	failing.On("Publish", ctx, "topic", event).Return(errors.New("broker down"))

	err := NewMultiPublisher(failing, ok).Publish(ctx, "topic", event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestLoggingPublisherNeverFails(t *testing.T) {
	p := NewLoggingPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, p.Publish(context.Background(), "topic", NewEvent(BlacklistRevoked, "t1", "", nil)))
}

func TestKafkaMessage(t *testing.T) {
	event := NewEvent(BlacklistAdded, "tenant-a", "admin", map[string]string{"value": "1.2.3.4"})

	msg, err := Message("livechat.blacklist", event)
	require.NoError(t, err)

	assert.Equal(t, "livechat.blacklist", msg.Topic)
	assert.Equal(t, []byte("tenant-a"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(BlacklistAdded), msg.Headers[0].Value)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, BlacklistAdded, decoded["type"])
	assert.Equal(t, "tenant-a", decoded["tenantId"])
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil)
	assert.Error(t, err)
}
