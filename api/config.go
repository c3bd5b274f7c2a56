package api

import (
	"errors"
	"fmt"
	"time"

	"pushnotify/adapters/sse"
)

type ServerConfig struct {
	ListenAddr string
	Stream     StreamConfig
	Credential CredentialConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Relay      RelayConfig
}

// StreamConfig 是上游推播串流的設定
type StreamConfig struct {
	Endpoint      string
	Identity      string // 啟動時自動連線的身分，空字串表示等待 POST /channel/connect
	CredentialKey string
	AuthScheme    string
	LegacyFraming bool
	DefaultTitle  string
	FallbackTitle string
	Reconnect     ReconnectConfig
}

type ReconnectConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	Jitter      float64
}

// Policy 轉換成 sse.ReconnectPolicy，未設定時使用預設策略
func (c ReconnectConfig) Policy() sse.ReconnectPolicy {
	if c == (ReconnectConfig{}) {
		return sse.DefaultReconnectPolicy()
	}
	return sse.ReconnectPolicy{
		MaxAttempts: c.MaxAttempts,
		Delay:       c.Delay,
		Multiplier:  c.Multiplier,
		MaxDelay:    c.MaxDelay,
		Jitter:      c.Jitter,
	}
}

// CredentialConfig 列出憑證來源，依 Token、Session、OAuth2 的順序查詢
type CredentialConfig struct {
	Token     string
	SessionID string
	OAuth2    OAuth2Config
}

type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	KeyPrefix    string
	StreamKey    string
	StreamMaxLen int64
}

type NATSConfig struct {
	URL     string
	Subject string
}

type RelaySource string

const (
	RelaySourceChannel RelaySource = "channel"
	RelaySourceRedis   RelaySource = "redis"
	RelaySourceNATS    RelaySource = "nats"
)

type RelayConfig struct {
	Source     RelaySource
	KeepAlive  time.Duration
	BufferSize int
}

// Validate 檢查設定是否完整
func (c ServerConfig) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if c.Stream.Endpoint == "" {
		errs = append(errs, errors.New("stream endpoint is required"))
	}
	if c.Credential.Token == "" && c.Credential.SessionID == "" && c.Credential.OAuth2.TokenURL == "" {
		errs = append(errs, errors.New("at least one credential source is required"))
	}
	if c.Credential.SessionID != "" && c.Redis.Addr == "" {
		errs = append(errs, errors.New("session credential requires redis"))
	}
	if c.Credential.OAuth2.TokenURL != "" && c.Credential.OAuth2.ClientID == "" {
		errs = append(errs, errors.New("oauth2 client id is required"))
	}
	if err := c.Stream.Reconnect.Policy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		errs = append(errs, errors.New("nats subject is required"))
	}

	switch c.Relay.Source {
	case RelaySourceChannel, "":
	case RelaySourceRedis:
		if c.Redis.Addr == "" || c.Redis.StreamKey == "" {
			errs = append(errs, errors.New("redis relay source requires redis address and stream key"))
		}
	case RelaySourceNATS:
		if c.NATS.URL == "" {
			errs = append(errs, errors.New("nats relay source requires nats url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown relay source %q", c.Relay.Source))
	}
	return errors.Join(errs...)
}
