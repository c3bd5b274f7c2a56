package redis

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewProducer(t *testing.T) {
	tests := []struct {
		name    string
		client  *redis.Client
		stream  string
		opts    []ProducerOption[testNotification]
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			client: redis.NewClient(&redis.Options{}),
			stream: "notifications",
		},
		{
			name:    "nil client",
			stream:  "notifications",
			wantErr: true,
			errMsg:  "redis client cannot be nil",
		},
		{
			name:    "empty stream",
			client:  redis.NewClient(&redis.Options{}),
			wantErr: true,
			errMsg:  "stream cannot be empty",
		},
		{
			name:   "with custom options",
			client: redis.NewClient(&redis.Options{}),
			stream: "notifications",
			opts: []ProducerOption[testNotification]{
				WithProducerLogger[testNotification](slog.Default()),
				WithProducerBufferSize[testNotification](200),
				WithProducerMaxLen[testNotification](1000),
				WithProducerEncodeFunc[testNotification](func(testNotification) (map[string]any, error) {
					return map[string]any{"test": "value"}, nil
				}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			producer, err := NewProducer[testNotification](tt.client, tt.stream, tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, producer)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, producer)
				producer.Close()
			}

			if tt.client != nil {
				tt.client.Close()
			}
		})
	}
}

func TestProducer_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	client, _, cleanup := setupTest(t)
	defer cleanup()

	producer, err := NewProducer[testNotification](client, "notifications")
	require.NoError(t, err)

	producer.Start()
	producer.Start() // 重複啟動沒有效果
	producer.Close()
	producer.Close() // 重複關閉沒有效果

	// 關閉後可以再次啟動
	producer.Start()
	producer.Close()
}

func TestProducer_Publish(t *testing.T) {
	msg := testNotification{ID: "n1", Title: "T", Message: "hello"}

	t.Run("successful publish", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeValues(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{
			Stream: "notifications",
			Values: values,
		}).SetVal("1234-0")

		producer, err := NewProducer[testNotification](client, "notifications")
		require.NoError(t, err)

		producer.Start()
		assert.NoError(t, producer.Publish(msg))

		time.Sleep(100 * time.Millisecond)
		producer.Close()
	})

	t.Run("publish with trimming", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeValues(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{
			Stream: "notifications",
			MaxLen: 500,
			Approx: true,
			Values: values,
		}).SetVal("1234-0")

		producer, err := NewProducer[testNotification](client, "notifications",
			WithProducerMaxLen[testNotification](500))
		require.NoError(t, err)

		producer.Start()
		assert.NoError(t, producer.Publish(msg))

		time.Sleep(100 * time.Millisecond)
		producer.Close()
	})

	t.Run("publish before start and after close", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, _, cleanup := setupTest(t)
		defer cleanup()

		producer, err := NewProducer[testNotification](client, "notifications")
		require.NoError(t, err)

		assert.ErrorIs(t, producer.Publish(msg), ErrClosed)

		producer.Start()
		producer.Close()
		assert.ErrorIs(t, producer.Publish(msg), ErrClosed)
	})

	t.Run("encode error", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, _, cleanup := setupTest(t)
		defer cleanup()

		producer, err := NewProducer[testNotification](client, "notifications",
			WithProducerEncodeFunc[testNotification](func(testNotification) (map[string]any, error) {
				return nil, fmt.Errorf("encode failed")
			}),
		)
		require.NoError(t, err)

		producer.Start()
		defer producer.Close()
		err = producer.Publish(msg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "encode failed")
	})

	t.Run("redis error does not stop the producer", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		client, mock, cleanup := setupTest(t)
		defer cleanup()

		values, err := EncodeValues(msg)
		require.NoError(t, err)
		mock.ExpectXAdd(&redis.XAddArgs{
			Stream: "notifications",
			Values: values,
		}).SetErr(redis.ErrClosed)
		mock.ExpectXAdd(&redis.XAddArgs{
			Stream: "notifications",
			Values: values,
		}).SetVal("1234-1")

		producer, err := NewProducer[testNotification](client, "notifications")
		require.NoError(t, err)

		producer.Start()
		assert.NoError(t, producer.Publish(msg))
		assert.NoError(t, producer.Publish(msg))

		time.Sleep(100 * time.Millisecond)
		producer.Close()
	})
}
