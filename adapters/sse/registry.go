package sse

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// subscription 是一個訂閱位置，以指標識別，
// 同一個 Handler 註冊兩次會得到兩個獨立的位置。
type subscription struct {
	handler Handler
}

// Registry 依註冊順序保存訂閱者並派送通知。
type Registry struct {
	mu     sync.RWMutex
	slots  []*subscription
	logger *slog.Logger
}

// NewRegistry 建立一個空的 Registry
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger.With(slog.String("caller", "Registry")),
	}
}

// Subscribe 將 handler 加到清單末端，回傳只移除這一個位置的函數。
// 重複呼叫回傳的函數不會有任何效果。
func (r *Registry) Subscribe(handler Handler) func() {
	sub := &subscription{handler: handler}

	r.mu.Lock()
	r.slots = append(r.slots, sub)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if i := slices.Index(r.slots, sub); i >= 0 {
			r.slots = slices.Delete(slices.Clone(r.slots), i, i+1)
		}
	}
}

// Len 回傳目前的訂閱者數量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Dispatch 依註冊順序呼叫所有訂閱者，回傳失敗的數量。
// 單一訂閱者 panic 只會被記錄，不影響其他訂閱者。
func (r *Registry) Dispatch(msg NotificationMessage) int {
	r.mu.RLock()
	slots := r.slots
	r.mu.RUnlock()

	failed := 0
	for i, sub := range slots {
		if err := invoke(sub.handler, msg); err != nil {
			failed++
			r.logger.Error("handler failed",
				slog.Int("index", i),
				slog.String("notificationId", msg.ID),
				slog.Any("error", err))
		}
	}
	return failed
}

func invoke(handler Handler, msg NotificationMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	handler(msg)
	return nil
}
