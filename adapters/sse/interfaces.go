//go:generate mockgen -package=sse -destination=mock.go -source=interfaces.go

package sse

import "time"

// CredentialKey 是向憑證提供者查詢憑證時預設使用的名稱
const CredentialKey = "token"

// ICredentialSupplier 提供同步的憑證查詢。
// 查無憑證是合法結果，以 ok == false 表示。
type ICredentialSupplier interface {
	Lookup(key string) (credential string, ok bool)
}

// IChannel 定義了推播通道對 UI 層公開的操作
type IChannel interface {
	// Subscribe 註冊訊息處理器，回傳取消註冊的函數
	Subscribe(handler Handler) (unsubscribe func())
	// Connect 以指定身分建立串流，立即返回，連線在背景建立
	Connect(identity Identity) error
	// Disconnect 中斷串流並停止重連
	Disconnect()
	// IsConnected 判斷串流是否處於開啟狀態
	IsConnected() bool
	// State 回傳目前的連線狀態
	State() State
	// Attempts 回傳目前連續重連的次數
	Attempts() int
	// Identity 回傳目前使用中的身分
	Identity() (Identity, bool)
}

// Observer 接收通道生命週期中的事件，例如用於指標收集。
// 所有方法都可能在持有通道鎖的情況下被呼叫，實作不可回呼通道。
type Observer interface {
	StateChanged(from, to State)
	FrameReceived()
	NotificationDispatched(msg NotificationMessage, failed int)
	ReconnectScheduled(attempt int, delay time.Duration)
	ReconnectExhausted(attempts int)
}

type nopObserver struct{}

func (nopObserver) StateChanged(State, State) {}

func (nopObserver) FrameReceived() {}

func (nopObserver) NotificationDispatched(NotificationMessage, int) {}

func (nopObserver) ReconnectScheduled(int, time.Duration) {}

func (nopObserver) ReconnectExhausted(int) {}
