// Package clock 抽象化時間操作，讓計時器相關的邏輯可以在測試中以確定性的方式推進。
package clock

import "time"

// Clock 提供目前時間與一次性計時器。
// 正式環境注入 Real()，測試注入 Fake()。
type Clock interface {
	// Now 回傳目前時間
	Now() time.Time
	// AfterFunc 在 d 之後呼叫 f，回傳可取消的 Timer
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer 代表一個已排程的呼叫。
type Timer interface {
	// Stop 取消尚未觸發的呼叫，若成功取消回傳 true
	Stop() bool
}

type realClock struct{}

// Real 回傳以 time 套件實作的 Clock。
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
