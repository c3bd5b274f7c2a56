package relay

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription 是 Hub 的一個訂閱者
type Subscription[T any] struct {
	ID string
	C  <-chan T
	ch chan T
}

// Hub 將訊息廣播給所有訂閱者。
// 訂閱者的緩衝已滿時該則訊息會被丟棄，廣播不會被單一慢速訂閱者阻塞。
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription[T]
	bufferSize  int
	closed      bool
}

// NewHub 建立 Hub，bufferSize 為每個訂閱者的緩衝大小
func NewHub[T any](bufferSize int) *Hub[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub[T]{
		subscribers: make(map[string]*Subscription[T]),
		bufferSize:  bufferSize,
	}
}

// Subscribe 建立新的訂閱。Hub 已關閉時回傳的通道已經關閉。
func (h *Hub[T]) Subscribe() *Subscription[T] {
	ch := make(chan T, h.bufferSize)
	sub := &Subscription[T]{ID: uuid.NewString(), C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe 移除訂閱並關閉其通道，重複呼叫沒有效果
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub.ID]; ok {
		delete(h.subscribers, sub.ID)
		close(sub.ch)
	}
}

// Broadcast 送出訊息，回傳送達與丟棄的數量
func (h *Hub[T]) Broadcast(message T) (delivered, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		select {
		case sub.ch <- message:
			delivered++
		default:
			dropped++
		}
	}
	return delivered, dropped
}

// Len 回傳目前的訂閱者數量
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close 關閉所有訂閱者的通道，之後的訂閱會立即收到已關閉的通道
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sub := range h.subscribers {
		close(sub.ch)
		delete(h.subscribers, id)
	}
}
