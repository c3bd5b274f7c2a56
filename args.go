package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pushnotify/adapters/sse"
	"pushnotify/api"
)

func ParseArgs() Args {
	// relay server
	pflag.String("listen-addr", "127.0.0.1:8080", "address of the local relay server")
	pflag.String("log-level", "info", "debug, info, warn or error")

	// stream
	pflag.String("stream-endpoint", "", "stream endpoint prefix, the identity is appended as the last path segment")
	pflag.String("identity", "", "identity to connect with at startup")
	pflag.String("credential-key", sse.CredentialKey, "name of the credential to look up")
	pflag.String("auth-scheme", "", "optional Authorization scheme, e.g. Bearer")
	pflag.Bool("legacy-framing", false, "split each read independently instead of buffering partial lines")
	pflag.String("default-title", sse.DefaultTitle, "title for notifications without one")
	pflag.String("fallback-title", sse.FallbackTitle, "title for plain-text notifications")

	// reconnect
	pflag.Int("reconnect-max-attempts", sse.DefaultMaxAttempts, "")
	pflag.Duration("reconnect-delay", sse.DefaultReconnectDelay, "")
	pflag.Float64("reconnect-multiplier", 1, "")
	pflag.Duration("reconnect-max-delay", 0, "")
	pflag.Float64("reconnect-jitter", 0, "")

	// credential sources
	pflag.String("token", "", "static credential")
	pflag.String("session-id", "", "read the credential from this redis session")
	pflag.String("oauth2-token-url", "", "")
	pflag.String("oauth2-client-id", "", "")
	pflag.String("oauth2-client-secret", "", "")
	pflag.StringSlice("oauth2-scopes", nil, "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 0, "")
	pflag.String("redis-key-prefix", "pushnotify:session:", "")
	pflag.String("redis-stream-key", "", "redis stream that notifications are copied to")
	pflag.Int64("redis-stream-max-len", 10000, "")

	// nats config
	pflag.String("nats-url", "", "")
	pflag.String("nats-subject", "pushnotify.notifications", "")

	// relay
	pflag.String("relay-source", string(api.RelaySourceChannel), "channel, redis or nats")
	pflag.Duration("relay-keep-alive", 30*time.Second, "")

	// bind pflag to viper
	pflag.Parse()
	_ = viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("PUSHNOTIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return Args{
		LogLevel: viper.GetString("log-level"),
		ServerConfig: api.ServerConfig{
			ListenAddr: viper.GetString("listen-addr"),
			Stream: api.StreamConfig{
				Endpoint:      viper.GetString("stream-endpoint"),
				Identity:      viper.GetString("identity"),
				CredentialKey: viper.GetString("credential-key"),
				AuthScheme:    viper.GetString("auth-scheme"),
				LegacyFraming: viper.GetBool("legacy-framing"),
				DefaultTitle:  viper.GetString("default-title"),
				FallbackTitle: viper.GetString("fallback-title"),
				Reconnect: api.ReconnectConfig{
					MaxAttempts: viper.GetInt("reconnect-max-attempts"),
					Delay:       viper.GetDuration("reconnect-delay"),
					Multiplier:  viper.GetFloat64("reconnect-multiplier"),
					MaxDelay:    viper.GetDuration("reconnect-max-delay"),
					Jitter:      viper.GetFloat64("reconnect-jitter"),
				},
			},
			Credential: api.CredentialConfig{
				Token:     viper.GetString("token"),
				SessionID: viper.GetString("session-id"),
				OAuth2: api.OAuth2Config{
					TokenURL:     viper.GetString("oauth2-token-url"),
					ClientID:     viper.GetString("oauth2-client-id"),
					ClientSecret: viper.GetString("oauth2-client-secret"),
					Scopes:       viper.GetStringSlice("oauth2-scopes"),
				},
			},
			Redis: api.RedisConfig{
				Addr:         viper.GetString("redis-addr"),
				Password:     viper.GetString("redis-password"),
				DB:           viper.GetInt("redis-db"),
				KeyPrefix:    viper.GetString("redis-key-prefix"),
				StreamKey:    viper.GetString("redis-stream-key"),
				StreamMaxLen: viper.GetInt64("redis-stream-max-len"),
			},
			NATS: api.NATSConfig{
				URL:     viper.GetString("nats-url"),
				Subject: viper.GetString("nats-subject"),
			},
			Relay: api.RelayConfig{
				Source:    api.RelaySource(viper.GetString("relay-source")),
				KeepAlive: viper.GetDuration("relay-keep-alive"),
			},
		},
	}
}

type Args struct {
	LogLevel     string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() error {
	if _, err := args.Level(); err != nil {
		return err
	}
	return args.ServerConfig.Validate()
}

// Level 解析日誌等級
func (args Args) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(args.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q", args.LogLevel)
	}
	return level, nil
}
