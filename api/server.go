package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"pushnotify/adapters/credential"
	"pushnotify/adapters/metrics"
	natsAdapter "pushnotify/adapters/nats"
	redisAdapter "pushnotify/adapters/redis"
	"pushnotify/adapters/relay"
	"pushnotify/adapters/session"
	"pushnotify/adapters/sse"
)

type serverOptions struct {
	logger     *slog.Logger
	httpClient *http.Client
	redis      *redis.Client
}

type ServerOption func(*serverOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithHTTPClient 設置連線上游串流使用的 HTTP client
func WithHTTPClient(client *http.Client) ServerOption {
	return func(o *serverOptions) {
		o.httpClient = client
	}
}

// WithRedisClient 使用既有的 Redis client 取代依設定建立的連線，Close 時會一併關閉
func WithRedisClient(client *redis.Client) ServerOption {
	return func(o *serverOptions) {
		o.redis = client
	}
}

// ServerImpl 建立並持有所有元件：推播通道、轉送伺服器、指標與各種 sink
type ServerImpl struct {
	channel     *sse.Channel
	relay       *relay.Server
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
	redisClient *redis.Client
	producer    *redisAdapter.Producer[sse.NotificationMessage]
	consumer    *redisAdapter.Consumer[sse.NotificationMessage]
	natsConn    *nats.Conn
	natsSource  *natsAdapter.Source

	unsubscribes []func()
	wg           sync.WaitGroup
	cancelFunc   context.CancelFunc
	logger       *slog.Logger

	config ServerConfig
}

func NewServer(config ServerConfig, opts ...ServerOption) (*ServerImpl, error) {
	const op = "api.NewServer"
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	options := serverOptions{
		logger:     slog.Default(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&options)
	}

	impl := &ServerImpl{
		metrics:  metrics.NewMetrics(),
		registry: prometheus.NewRegistry(),
		logger:   options.logger.With(slog.String("caller", "Server")),
		config:   config,
	}
	if err := impl.metrics.Register(impl.registry); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	impl.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 初始化Redis連線
	impl.redisClient = options.redis
	if impl.redisClient == nil && config.Redis.Addr != "" {
		impl.redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	// 初始化NATS連線
	if config.NATS.URL != "" {
		conn, err := nats.Connect(config.NATS.URL, nats.Name("pushnotify"))
		if err != nil {
			impl.closeClients()
			return nil, fmt.Errorf("%s: failed to connect to nats: %w", op, err)
		}
		impl.natsConn = conn
	}

	if err := impl.build(options); err != nil {
		impl.closeClients()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return impl, nil
}

func (impl *ServerImpl) build(options serverOptions) error {
	config := impl.config

	credentials, err := impl.buildCredentials(options.logger)
	if err != nil {
		return err
	}

	channelOpts := []sse.Option{
		sse.WithLogger(options.logger),
		sse.WithHTTPClient(options.httpClient),
		sse.WithReconnectPolicy(config.Stream.Reconnect.Policy()),
		sse.WithObserver(impl.metrics),
		sse.WithAuthScheme(config.Stream.AuthScheme),
		sse.WithLegacyFraming(config.Stream.LegacyFraming),
		sse.WithDefaultTitle(config.Stream.DefaultTitle),
		sse.WithFallbackTitle(config.Stream.FallbackTitle),
	}
	if config.Stream.CredentialKey != "" {
		channelOpts = append(channelOpts, sse.WithCredentialKey(config.Stream.CredentialKey))
	}
	impl.channel, err = sse.NewChannel(config.Stream.Endpoint, credentials, channelOpts...)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	relayOpts := []relay.ServerOption{
		relay.WithLogger(options.logger),
		relay.WithGatherer(impl.registry),
		relay.WithRecorder(impl.metrics),
	}
	if config.Relay.KeepAlive > 0 {
		relayOpts = append(relayOpts, relay.WithKeepAlive(config.Relay.KeepAlive))
	}
	if config.Relay.BufferSize > 0 {
		relayOpts = append(relayOpts, relay.WithBufferSize(config.Relay.BufferSize))
	}
	impl.relay = relay.NewServer(impl.channel, relayOpts...)

	// 轉送來源
	switch config.Relay.Source {
	case RelaySourceRedis:
		impl.consumer, err = redisAdapter.NewConsumer[sse.NotificationMessage](
			impl.redisClient,
			config.Redis.StreamKey,
			redisAdapter.WithConsumerLogger[sse.NotificationMessage](options.logger),
		)
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	case RelaySourceNATS:
		impl.natsSource, err = natsAdapter.NewSource(impl.natsConn, config.NATS.Subject, options.logger)
		if err != nil {
			return fmt.Errorf("failed to create nats source: %w", err)
		}
	default:
		impl.unsubscribes = append(impl.unsubscribes, impl.channel.Subscribe(impl.relay.Publish))
	}

	// 其他實例可讀取的 sink
	if impl.redisClient != nil && config.Redis.StreamKey != "" {
		impl.producer, err = redisAdapter.NewProducer[sse.NotificationMessage](
			impl.redisClient,
			config.Redis.StreamKey,
			redisAdapter.WithProducerLogger[sse.NotificationMessage](options.logger),
			redisAdapter.WithProducerMaxLen[sse.NotificationMessage](config.Redis.StreamMaxLen),
		)
		if err != nil {
			return fmt.Errorf("failed to create producer: %w", err)
		}
		impl.unsubscribes = append(impl.unsubscribes, impl.channel.Subscribe(func(msg sse.NotificationMessage) {
			if err := impl.producer.Publish(msg); err != nil {
				impl.logger.Error("failed to queue notification", slog.String("notificationId", msg.ID), slog.Any("error", err))
			}
		}))
	}
	if impl.natsConn != nil {
		sink, err := natsAdapter.NewSink(impl.natsConn, config.NATS.Subject, options.logger)
		if err != nil {
			return fmt.Errorf("failed to create nats sink: %w", err)
		}
		impl.unsubscribes = append(impl.unsubscribes, impl.channel.Subscribe(sink.Handle))
	}
	return nil
}

// buildCredentials 依序組合已設定的憑證來源
func (impl *ServerImpl) buildCredentials(logger *slog.Logger) (credential.Chain, error) {
	config := impl.config.Credential
	key := impl.config.Stream.CredentialKey
	if key == "" {
		key = sse.CredentialKey
	}

	var chain credential.Chain
	if config.Token != "" {
		chain = append(chain, credential.NewStatic(map[string]string{key: config.Token}))
	}
	if config.SessionID != "" {
		if impl.redisClient == nil {
			return nil, errors.New("session credential requires redis")
		}
		store := redisAdapter.NewStore(impl.redisClient, redisAdapter.WithStorePrefix(impl.config.Redis.KeyPrefix))
		supplier, err := session.NewSupplier(store, config.SessionID, session.WithSupplierLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create session supplier: %w", err)
		}
		chain = append(chain, supplier)
	}
	if config.OAuth2.TokenURL != "" {
		source, err := credential.NewClientCredentials(context.Background(), credential.ClientCredentialsConfig{
			TokenURL:     config.OAuth2.TokenURL,
			ClientID:     config.OAuth2.ClientID,
			ClientSecret: config.OAuth2.ClientSecret,
			Scopes:       config.OAuth2.Scopes,
		}, credential.WithTokenSourceLogger(logger), credential.WithTokenSourceKey(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create oauth2 supplier: %w", err)
		}
		chain = append(chain, source)
	}
	return chain, nil
}

// Channel 回傳推播通道
func (impl *ServerImpl) Channel() *sse.Channel {
	return impl.channel
}

// Handler 回傳轉送伺服器的 HTTP handler
func (impl *ServerImpl) Handler() http.Handler {
	return impl.relay.Handler()
}

// Start 啟動 sink 與轉送來源，並在設定了身分時開始連線
func (impl *ServerImpl) Start() error {
	const op = "api.ServerImpl.Start"
	ctx, cancel := context.WithCancel(context.Background())
	impl.cancelFunc = cancel

	if impl.producer != nil {
		impl.producer.Start()
	}
	if impl.consumer != nil {
		impl.consumer.Start()
		impl.feed(ctx, impl.consumer.Subscribe())
	}
	if impl.natsSource != nil {
		if err := impl.natsSource.Start(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		impl.feed(ctx, impl.natsSource.Subscribe())
	}

	if identity := impl.config.Stream.Identity; identity != "" {
		err := impl.channel.Connect(sse.Identity(identity))
		if errors.Is(err, sse.ErrCredentialMissing) {
			impl.logger.Warn("credential missing at startup, waiting for explicit connect")
		} else if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (impl *ServerImpl) feed(ctx context.Context, source <-chan sse.NotificationMessage) {
	impl.wg.Add(1)
	go func() {
		defer impl.wg.Done()
		impl.relay.Feed(ctx, source)
	}()
}

// Run 啟動 HTTP 伺服器，ctx 結束時優雅關閉
func (impl *ServerImpl) Run(ctx context.Context) error {
	const op = "api.ServerImpl.Run"
	server := &http.Server{
		Addr:              impl.config.ListenAddr,
		Handler:           impl.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		impl.logger.Info("relay server listening", slog.String("addr", impl.config.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("%s: %w", op, err)
	case <-ctx.Done():
	}

	// 先結束串流客戶端，否則 Shutdown 會等待長連線
	impl.relay.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown failed: %w", op, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close 依相反順序關閉所有元件
func (impl *ServerImpl) Close() {
	impl.channel.Close()
	for _, unsubscribe := range impl.unsubscribes {
		unsubscribe()
	}
	if impl.cancelFunc != nil {
		impl.cancelFunc()
	}
	if impl.consumer != nil {
		impl.consumer.Close()
	}
	if impl.natsSource != nil {
		impl.natsSource.Close()
	}
	impl.wg.Wait()
	if impl.producer != nil {
		impl.producer.Close()
	}
	impl.relay.Close()
	impl.closeClients()
}

func (impl *ServerImpl) closeClients() {
	if impl.natsConn != nil {
		if err := impl.natsConn.Drain(); err != nil {
			impl.logger.Warn("failed to drain nats connection", slog.Any("error", err))
		}
	}
	if impl.redisClient != nil {
		if err := impl.redisClient.Close(); err != nil {
			impl.logger.Warn("failed to close redis client", slog.Any("error", err))
		}
	}
}
