package credential

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"pushnotify/adapters/sse"
)

type tokenSourceOptions struct {
	logger *slog.Logger
	key    string
}

type TokenSourceOption func(*tokenSourceOptions)

// WithTokenSourceLogger 設置日誌記錄器
func WithTokenSourceLogger(logger *slog.Logger) TokenSourceOption {
	return func(o *tokenSourceOptions) {
		o.logger = logger
	}
}

// WithTokenSourceKey 設置此來源回應的憑證名稱
func WithTokenSourceKey(key string) TokenSourceOption {
	return func(o *tokenSourceOptions) {
		o.key = key
	}
}

// TokenSource 以 oauth2.TokenSource 提供存取權杖。
// 權杖的快取與更新交給 oauth2.ReuseTokenSource 處理。
type TokenSource struct {
	source oauth2.TokenSource
	logger *slog.Logger
	key    string
}

var _ sse.ICredentialSupplier = (*TokenSource)(nil)

// NewTokenSource 包裝既有的 oauth2.TokenSource
func NewTokenSource(source oauth2.TokenSource, opts ...TokenSourceOption) (*TokenSource, error) {
	if source == nil {
		return nil, errors.New("token source cannot be nil")
	}

	// 默認選項
	options := tokenSourceOptions{
		logger: slog.Default(),
		key:    sse.CredentialKey,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &TokenSource{
		source: oauth2.ReuseTokenSource(nil, source),
		logger: options.logger.With(slog.String("caller", "TokenSource")),
		key:    options.key,
	}, nil
}

// ClientCredentialsConfig 是 client credentials 流程的設定
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// NewClientCredentials 以 client credentials 流程取得權杖。
// ctx 決定取得權杖時使用的 HTTP client，應存活到 TokenSource 不再使用為止。
func NewClientCredentials(ctx context.Context, cfg ClientCredentialsConfig, opts ...TokenSourceOption) (*TokenSource, error) {
	if cfg.TokenURL == "" {
		return nil, errors.New("token url cannot be empty")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client id cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	config := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return NewTokenSource(config.TokenSource(ctx), opts...)
}

// Lookup 取得目前有效的存取權杖，取得失敗時視為不存在
func (s *TokenSource) Lookup(key string) (string, bool) {
	if key != s.key {
		return "", false
	}
	token, err := s.source.Token()
	if err != nil {
		s.logger.Error("failed to obtain token", slog.Any("error", err))
		return "", false
	}
	if token.AccessToken == "" {
		return "", false
	}
	return token.AccessToken, true
}
