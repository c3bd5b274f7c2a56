package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/chanx"
)

type producerOptions[T any] struct {
	logger     *slog.Logger
	bufferSize int
	maxLen     int64
	encodeFunc func(T) (map[string]any, error)
}

type ProducerOption[T any] func(*producerOptions[T])

// WithProducerLogger 設置日誌記錄器
func WithProducerLogger[T any](logger *slog.Logger) ProducerOption[T] {
	return func(o *producerOptions[T]) {
		o.logger = logger
	}
}

// WithProducerBufferSize 設置緩衝的初始大小
func WithProducerBufferSize[T any](size int) ProducerOption[T] {
	return func(o *producerOptions[T]) {
		o.bufferSize = size
	}
}

// WithProducerMaxLen 設置 stream 保留的大約筆數，0 表示不修剪
func WithProducerMaxLen[T any](n int64) ProducerOption[T] {
	return func(o *producerOptions[T]) {
		o.maxLen = n
	}
}

// WithProducerEncodeFunc 設置訊息編碼函數
func WithProducerEncodeFunc[T any](fn func(T) (map[string]any, error)) ProducerOption[T] {
	return func(o *producerOptions[T]) {
		o.encodeFunc = fn
	}
}

// Producer 將資料寫入 Redis stream。
// Publish 只放入無上限的緩衝，實際的 XADD 由背景 goroutine 依序執行。
type Producer[T any] struct {
	client  *redis.Client
	stream  string
	logger  *slog.Logger
	options producerOptions[T]

	mu       sync.Mutex
	upstream *chanx.UnboundedChan[map[string]any]
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
}

var _ IProducer[struct{}] = (*Producer[struct{}])(nil)

func NewProducer[T any](client *redis.Client, stream string, opts ...ProducerOption[T]) (*Producer[T], error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if stream == "" {
		return nil, errors.New("stream cannot be empty")
	}

	// 默認選項
	options := producerOptions[T]{
		logger:     slog.Default(),
		bufferSize: 100,
		encodeFunc: EncodeValues[T],
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &Producer[T]{
		client:  client,
		stream:  stream,
		logger:  options.logger.With(slog.String("caller", "Producer"), slog.String("stream", stream)),
		options: options,
	}, nil
}

// Start 啟動背景寫入，重複呼叫沒有效果
func (p *Producer[T]) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.upstream = chanx.NewUnboundedChan[map[string]any](ctx, p.options.bufferSize)
	p.cancel = cancel
	p.running = true
	p.logger.Info("starting stream producer")

	p.wg.Add(1)
	go p.loop(ctx, p.upstream)
}

func (p *Producer[T]) loop(ctx context.Context, upstream *chanx.UnboundedChan[map[string]any]) {
	defer p.wg.Done()
	defer p.logger.Info("producer goroutine stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case values, ok := <-upstream.Out:
			if !ok {
				return
			}
			args := &redis.XAddArgs{
				Stream: p.stream,
				Values: values,
			}
			if p.options.maxLen > 0 {
				args.MaxLen = p.options.maxLen
				args.Approx = true
			}
			id, err := p.client.XAdd(ctx, args).Result()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				p.logger.Error("publish message error", slog.Any("error", err))
				continue
			}
			p.logger.Debug("message published", slog.String("messageId", id))
		}
	}
}

// Publish 編碼後放入緩衝，尚未啟動或已關閉時回傳 ErrClosed
func (p *Producer[T]) Publish(data T) error {
	values, err := p.options.encodeFunc(data)
	if err != nil {
		return fmt.Errorf("encode message error: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return ErrClosed
	}
	p.upstream.In <- values
	return nil
}

// Close 停止背景寫入並等待結束，尚未寫出的訊息會被丟棄
func (p *Producer[T]) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.logger.Info("closing stream producer")
	p.running = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("stream producer closed")
}
