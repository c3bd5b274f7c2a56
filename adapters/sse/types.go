package sse

import (
	"fmt"
	"time"
)

// Identity 是訂閱者的識別碼，作為串流端點路徑的最後一段。
// 數字型的識別碼由呼叫端自行格式化。
type Identity string

func (id Identity) String() string {
	return string(id)
}

// NotificationType 表示通知的類別
type NotificationType string

const (
	TypeInfo    NotificationType = "info"
	TypeSuccess NotificationType = "success"
	TypeWarning NotificationType = "warning"
	TypeError   NotificationType = "error"
)

// Valid 判斷是否為已知的通知類別
func (t NotificationType) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// NotificationMessage 是通道對外輸出的通知。
// ID 一定非空；由通道產生時 Read 一定是 false。
type NotificationMessage struct {
	ID      string           `json:"id" msgpack:"id"`
	Title   string           `json:"title" msgpack:"title"`
	Message string           `json:"message" msgpack:"message"`
	Time    string           `json:"time" msgpack:"time"`
	Read    bool             `json:"read" msgpack:"read"`
	Type    NotificationType `json:"type" msgpack:"type"`
}

// Handler 是訂閱者的回呼函數
type Handler func(NotificationMessage)

// State 表示通道的連線狀態
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateReconnecting:
		return "reconnecting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText 讓 State 在 JSON 中以名稱呈現
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// isoMillis 是通知時間的格式 (ISO-8601，毫秒精度)
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
