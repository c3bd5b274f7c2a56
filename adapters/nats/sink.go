package nats

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"pushnotify/adapters/sse"
)

// publisher 由 *nats.Conn 實作
type publisher interface {
	Publish(subject string, data []byte) error
}

// Sink 將收到的通知以 msgpack 編碼後發佈到固定的 subject
type Sink struct {
	conn    publisher
	subject string
	logger  *slog.Logger
}

// NewSink 建立 Sink，logger 為 nil 時使用 slog.Default()
func NewSink(conn publisher, subject string, logger *slog.Logger) (*Sink, error) {
	if conn == nil {
		return nil, errors.New("nats connection cannot be nil")
	}
	if subject == "" {
		return nil, errors.New("subject cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		conn:    conn,
		subject: subject,
		logger:  logger.With(slog.String("caller", "NatsSink"), slog.String("subject", subject)),
	}, nil
}

// Publish 編碼並發佈一則通知
func (s *Sink) Publish(msg sse.NotificationMessage) error {
	const op = "nats.Sink.Publish"
	data, err := msgpack.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: msgpack marshal error: %w", op, err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Handle 可直接註冊為 sse.Handler，發佈失敗只記錄不回傳
func (s *Sink) Handle(msg sse.NotificationMessage) {
	if err := s.Publish(msg); err != nil {
		s.logger.Error("failed to publish notification",
			slog.String("notificationId", msg.ID),
			slog.Any("error", err))
	}
}
