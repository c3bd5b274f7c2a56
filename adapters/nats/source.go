package nats

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"pushnotify/adapters/sse"
)

// subscribeFunc 訂閱 subject 並回傳取消訂閱的函數
type subscribeFunc func(subject string, ch chan *nats.Msg) (func() error, error)

func chanSubscriber(conn *nats.Conn) subscribeFunc {
	return func(subject string, ch chan *nats.Msg) (func() error, error) {
		sub, err := conn.ChanSubscribe(subject, ch)
		if err != nil {
			return nil, err
		}
		return sub.Unsubscribe, nil
	}
}

// Source 訂閱其他實例發佈的通知，解碼後送到下游 channel
type Source struct {
	subscribe  subscribeFunc
	subject    string
	bufferSize int
	logger     *slog.Logger

	mu          sync.Mutex
	inbound     chan *nats.Msg
	downstream  chan sse.NotificationMessage
	unsubscribe func() error
	done        chan struct{}
	wg          sync.WaitGroup
	running     bool
}

// NewSource 建立 Source，logger 為 nil 時使用 slog.Default()
func NewSource(conn *nats.Conn, subject string, logger *slog.Logger) (*Source, error) {
	if conn == nil {
		return nil, errors.New("nats connection cannot be nil")
	}
	return newSource(chanSubscriber(conn), subject, logger)
}

func newSource(subscribe subscribeFunc, subject string, logger *slog.Logger) (*Source, error) {
	if subject == "" {
		return nil, errors.New("subject cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		subscribe:  subscribe,
		subject:    subject,
		bufferSize: 64,
		downstream: make(chan sse.NotificationMessage),
		logger:     logger.With(slog.String("caller", "NatsSource"), slog.String("subject", subject)),
	}, nil
}

// Start 開始訂閱，重複呼叫沒有效果
func (s *Source) Start() error {
	const op = "nats.Source.Start"
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	inbound := make(chan *nats.Msg, s.bufferSize)
	unsubscribe, err := s.subscribe(s.subject, inbound)
	if err != nil {
		return fmt.Errorf("%s: failed to subscribe: %w", op, err)
	}

	s.inbound = inbound
	s.downstream = make(chan sse.NotificationMessage, s.bufferSize)
	s.unsubscribe = unsubscribe
	s.done = make(chan struct{})
	s.running = true
	s.logger.Info("subscribed")

	s.wg.Add(1)
	go s.loop(inbound, s.downstream, s.done)
	return nil
}

func (s *Source) loop(inbound <-chan *nats.Msg, downstream chan<- sse.NotificationMessage, done <-chan struct{}) {
	defer s.wg.Done()
	defer close(downstream)

	for {
		select {
		case <-done:
			return
		case m := <-inbound:
			var msg sse.NotificationMessage
			if err := msgpack.Unmarshal(m.Data, &msg); err != nil {
				s.logger.Error("failed to decode notification", slog.Any("error", err))
				continue
			}
			select {
			case <-done:
				return
			case downstream <- msg:
			}
		}
	}
}

// Subscribe 回傳目前的下游 channel
func (s *Source) Subscribe() <-chan sse.NotificationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downstream
}

// Close 取消訂閱並等待背景 goroutine 結束
func (s *Source) Close() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	if err := s.unsubscribe(); err != nil {
		s.logger.Warn("failed to unsubscribe", slog.Any("error", err))
	}
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("unsubscribed")
}
