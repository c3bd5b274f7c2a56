package sse

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	DefaultMaxAttempts    = 5
	DefaultReconnectDelay = 3 * time.Second
)

// ReconnectPolicy 決定自動重連的次數上限與等待時間。
// 預設為固定間隔；Multiplier 大於 1 時改為有上限的指數退避。
type ReconnectPolicy struct {
	MaxAttempts int           // 連續重連次數上限
	Delay       time.Duration // 每次重連前的等待時間
	Multiplier  float64       // 退避倍數，0 或 1 表示固定間隔
	MaxDelay    time.Duration // 退避後的等待時間上限，0 表示不設限
	Jitter      float64       // 隨機增加的比例，介於 [0, 1)
}

// DefaultReconnectPolicy 回傳固定 3 秒、最多 5 次的策略
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultReconnectDelay,
		Multiplier:  1,
	}
}

// Validate 檢查策略參數
func (p ReconnectPolicy) Validate() error {
	switch {
	case p.MaxAttempts < 0:
		return fmt.Errorf("%w: max attempts cannot be negative", ErrInvalidPolicy)
	case p.Delay <= 0:
		return fmt.Errorf("%w: delay must be positive", ErrInvalidPolicy)
	case p.Multiplier != 0 && p.Multiplier < 1:
		return fmt.Errorf("%w: multiplier must be >= 1", ErrInvalidPolicy)
	case p.MaxDelay != 0 && p.MaxDelay < p.Delay:
		return fmt.Errorf("%w: max delay must be >= delay", ErrInvalidPolicy)
	case p.Jitter < 0 || p.Jitter >= 1:
		return fmt.Errorf("%w: jitter must be in [0, 1)", ErrInvalidPolicy)
	}
	return nil
}

// Next 回傳第 attempts+1 次重連前的等待時間。
// attempts 已達上限時回傳 false，不應再排程。
func (p ReconnectPolicy) Next(attempts int) (time.Duration, bool) {
	if attempts >= p.MaxAttempts {
		return 0, false
	}

	delay := p.Delay
	if p.Multiplier > 1 {
		next := float64(p.Delay)
		for i := 0; i < attempts; i++ {
			next *= p.Multiplier
			if p.MaxDelay > 0 && next >= float64(p.MaxDelay) {
				next = float64(p.MaxDelay)
				break
			}
		}
		delay = time.Duration(next)
	}
	if p.Jitter > 0 {
		delay += time.Duration(rand.Float64() * p.Jitter * float64(delay))
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay, true
}
