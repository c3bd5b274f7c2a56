package sse

import (
	"log/slog"
	"net/http"

	"pushnotify/adapters/clock"
)

type channelOptions struct {
	logger         *slog.Logger
	httpClient     *http.Client
	clock          clock.Clock
	policy         ReconnectPolicy
	observer       Observer
	credentialKey  string
	authScheme     string
	legacyFraming  bool
	defaultTitle   string
	fallbackTitle  string
	readBufferSize int
	maxLineLength  int
}

// Option 設定 Channel 的選項
type Option func(*channelOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) Option {
	return func(o *channelOptions) {
		o.logger = logger
	}
}

// WithHTTPClient 設置發送串流請求的 HTTP 客戶端，不應設定整體逾時
func WithHTTPClient(client *http.Client) Option {
	return func(o *channelOptions) {
		o.httpClient = client
	}
}

// WithClock 設置重連計時器使用的時鐘
func WithClock(c clock.Clock) Option {
	return func(o *channelOptions) {
		o.clock = c
	}
}

// WithReconnectPolicy 設置重連策略
func WithReconnectPolicy(policy ReconnectPolicy) Option {
	return func(o *channelOptions) {
		o.policy = policy
	}
}

// WithObserver 設置生命週期事件的觀察者
func WithObserver(observer Observer) Option {
	return func(o *channelOptions) {
		o.observer = observer
	}
}

// WithCredentialKey 設置查詢憑證時使用的名稱
func WithCredentialKey(key string) Option {
	return func(o *channelOptions) {
		o.credentialKey = key
	}
}

// WithAuthScheme 設置 Authorization 標頭的前綴，例如 "Bearer"。
// 預設為空，直接送出原始憑證。
func WithAuthScheme(scheme string) Option {
	return func(o *channelOptions) {
		o.authScheme = scheme
	}
}

// WithLegacyFraming 讓解析器不跨區塊緩衝，與舊版行為一致
func WithLegacyFraming(legacy bool) Option {
	return func(o *channelOptions) {
		o.legacyFraming = legacy
	}
}

// WithDefaultTitle 設置結構化通知缺少標題時的預設值
func WithDefaultTitle(title string) Option {
	return func(o *channelOptions) {
		o.defaultTitle = title
	}
}

// WithFallbackTitle 設置純文字通知的標題
func WithFallbackTitle(title string) Option {
	return func(o *channelOptions) {
		o.fallbackTitle = title
	}
}

// WithReadBufferSize 設置每次讀取串流的緩衝大小
func WithReadBufferSize(size int) Option {
	return func(o *channelOptions) {
		o.readBufferSize = size
	}
}

// WithMaxLineLength 設置單行未完成內容的緩衝上限，超過時丟棄該行，n <= 0 表示不限制
func WithMaxLineLength(n int) Option {
	return func(o *channelOptions) {
		o.maxLineLength = n
	}
}
