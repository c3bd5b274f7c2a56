package redis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type consumerOptions[T any] struct {
	logger       *slog.Logger
	bufferSize   int
	blockTimeout time.Duration
	retryDelay   time.Duration
	startID      string
	decodeFunc   func(map[string]any) (T, error)
}

type ConsumerOption[T any] func(*consumerOptions[T])

// WithConsumerLogger 設置日誌記錄器
func WithConsumerLogger[T any](logger *slog.Logger) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.logger = logger
	}
}

// WithConsumerBufferSize 設置下游channel的緩衝大小
func WithConsumerBufferSize[T any](size int) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.bufferSize = size
	}
}

// WithConsumerBlockTimeout 設置阻塞讀取超時時間
func WithConsumerBlockTimeout[T any](d time.Duration) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.blockTimeout = d
	}
}

// WithConsumerRetryDelay 設置讀取失敗後的等待時間
func WithConsumerRetryDelay[T any](d time.Duration) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.retryDelay = d
	}
}

// WithConsumerStartID 設置開始讀取的訊息 ID，預設 "$" 只讀取新訊息
func WithConsumerStartID[T any](id string) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.startID = id
	}
}

// WithConsumerDecodeFunc 設置自定義解碼函數
func WithConsumerDecodeFunc[T any](fn func(map[string]any) (T, error)) ConsumerOption[T] {
	return func(o *consumerOptions[T]) {
		o.decodeFunc = fn
	}
}

// Consumer 以 XREAD 依序讀取 stream，解碼後送到下游 channel。
// 每次 Start 都會建立新的下游 channel，Close 後該 channel 會被關閉。
type Consumer[T any] struct {
	client  *redis.Client
	stream  string
	logger  *slog.Logger
	options consumerOptions[T]

	mu         sync.Mutex
	lastID     string
	downstream chan T
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	running    bool
}

var _ IConsumer[struct{}] = (*Consumer[struct{}])(nil)

func NewConsumer[T any](client *redis.Client, stream string, opts ...ConsumerOption[T]) (*Consumer[T], error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if stream == "" {
		return nil, errors.New("stream cannot be empty")
	}

	// 默認選項
	options := consumerOptions[T]{
		logger:       slog.Default(),
		bufferSize:   100,
		blockTimeout: time.Second,
		retryDelay:   time.Second,
		startID:      "$",
		decodeFunc:   DecodeValues[T],
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &Consumer[T]{
		client:     client,
		stream:     stream,
		lastID:     options.startID,
		downstream: make(chan T),
		logger:     options.logger.With(slog.String("caller", "Consumer"), slog.String("stream", stream)),
		options:    options,
	}, nil
}

// Start 啟動背景讀取，重複呼叫沒有效果
func (c *Consumer[T]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.downstream = make(chan T, c.options.bufferSize)
	c.cancel = cancel
	c.running = true
	c.logger.Info("starting stream consumer")

	c.wg.Add(1)
	go c.loop(ctx, c.downstream)
}

func (c *Consumer[T]) loop(ctx context.Context, downstream chan<- T) {
	defer c.wg.Done()
	defer c.logger.Info("consumer goroutine stopped")
	defer close(downstream)

	for ctx.Err() == nil {
		message, err := c.fetch(ctx)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("fetch message error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.options.retryDelay):
			}
			continue
		}

		data, err := c.options.decodeFunc(message.Values)
		if err != nil {
			c.logger.Error("failed to decode message",
				slog.String("messageId", message.ID),
				slog.Any("error", err))
			continue
		}

		select {
		case <-ctx.Done():
			return
		case downstream <- data:
			c.logger.Debug("message sent to downstream", slog.String("messageId", message.ID))
		}
	}
}

func (c *Consumer[T]) fetch(ctx context.Context) (redis.XMessage, error) {
	streams, err := c.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{c.stream, c.lastID},
		Count:   1,
		Block:   c.options.blockTimeout,
	}).Result()
	if err != nil {
		return redis.XMessage{}, err
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return redis.XMessage{}, redis.Nil
	}

	message := streams[0].Messages[0]
	c.lastID = message.ID
	return message, nil
}

// Subscribe 回傳目前的下游 channel
func (c *Consumer[T]) Subscribe() <-chan T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downstream
}

// Close 停止讀取並等待背景 goroutine 結束
func (c *Consumer[T]) Close() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.logger.Info("closing stream consumer")
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	c.logger.Info("stream consumer closed")
}
