package sse

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing 表示憑證提供者沒有可用的憑證
	ErrCredentialMissing = errors.New("credential missing")
	// ErrInvalidIdentity 表示身分無法作為端點路徑的最後一段
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrInvalidPolicy 表示重連策略的參數不合法
	ErrInvalidPolicy = errors.New("invalid reconnect policy")

	errStreamEnded = errors.New("stream ended")
)

// StatusError 表示串流請求收到非 2xx 回應
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
