package nats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"pushnotify/adapters/sse"
)

func TestNewSink(t *testing.T) {
	tests := []struct {
		name    string
		conn    publisher
		subject string
		wantErr bool
		errMsg  string
	}{
		{name: "valid", conn: &fakeConn{}, subject: "notifications"},
		{name: "nil connection", subject: "notifications", wantErr: true, errMsg: "nats connection cannot be nil"},
		{name: "empty subject", conn: &fakeConn{}, wantErr: true, errMsg: "subject cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := NewSink(tt.conn, tt.subject, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, sink)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, sink)
		})
	}
}

func TestSink_Publish(t *testing.T) {
	conn := &fakeConn{}
	sink, err := NewSink(conn, "notifications", nil)
	require.NoError(t, err)

	msg := sse.NotificationMessage{
		ID:      "n1",
		Title:   "T",
		Message: "你好",
		Time:    "2024-05-01T08:00:00.000Z",
		Type:    sse.TypeSuccess,
	}
	sink.Handle(msg)

	require.Len(t, conn.published, 1)
	assert.Equal(t, "notifications", conn.published[0].subject)

	var got sse.NotificationMessage
	require.NoError(t, msgpack.Unmarshal(conn.published[0].data, &got))
	assert.Equal(t, msg, got)
}

func TestSink_PublishError(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("nats: connection closed")}
	sink, err := NewSink(conn, "notifications", nil)
	require.NoError(t, err)

	err = sink.Publish(sse.NotificationMessage{ID: "n1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")

	// Handle 只記錄錯誤
	assert.NotPanics(t, func() { sink.Handle(sse.NotificationMessage{ID: "n1"}) })
}
