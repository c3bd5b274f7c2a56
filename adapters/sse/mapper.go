package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	DefaultTitle  = "New message"
	FallbackTitle = "System notice"
)

// fieldExtractor 從解碼後的物件中取出單一欄位值
type fieldExtractor func(map[string]any) (string, bool)

// fromKey 取出 key 對應的值。
// 非空字串與非零數字視為存在，其他型別一律略過。
func fromKey(key string) fieldExtractor {
	return func(obj map[string]any) (string, bool) {
		switch v := obj[key].(type) {
		case string:
			return v, v != ""
		case json.Number:
			if f, err := v.Float64(); err == nil && f == 0 {
				return "", false
			}
			return v.String(), true
		}
		return "", false
	}
}

// 每個欄位依序嘗試的來源
var (
	idFields      = []fieldExtractor{fromKey("id")}
	titleFields   = []fieldExtractor{fromKey("title")}
	messageFields = []fieldExtractor{fromKey("message"), fromKey("content"), fromKey("msg")}
	timeFields    = []fieldExtractor{fromKey("time")}
	typeFields    = []fieldExtractor{fromKey("type")}
)

func firstOf(obj map[string]any, extractors []fieldExtractor) (string, bool) {
	values := lo.FilterMap(extractors, func(extract fieldExtractor, _ int) (string, bool) {
		return extract(obj)
	})
	return lo.Coalesce(values...)
}

// Mapper 將 data 內容轉換成 NotificationMessage。
// 無法解析成物件的內容會以純文字通知處理，Map 不會失敗。
type Mapper struct {
	now           func() time.Time
	defaultTitle  string
	fallbackTitle string
}

// NewMapper 建立 Mapper，now 為 nil 時使用 time.Now。
func NewMapper(now func() time.Time, defaultTitle, fallbackTitle string) *Mapper {
	if now == nil {
		now = time.Now
	}
	if defaultTitle == "" {
		defaultTitle = DefaultTitle
	}
	if fallbackTitle == "" {
		fallbackTitle = FallbackTitle
	}
	return &Mapper{
		now:           now,
		defaultTitle:  defaultTitle,
		fallbackTitle: fallbackTitle,
	}
}

// Map 轉換單一 data 內容
func (m *Mapper) Map(payload string) NotificationMessage {
	now := m.now()

	obj, ok := decodeObject(payload)
	if !ok {
		return NotificationMessage{
			ID:      syntheticID(now),
			Title:   m.fallbackTitle,
			Message: payload,
			Time:    formatTime(now),
			Type:    TypeInfo,
		}
	}

	msg := NotificationMessage{
		ID:    syntheticID(now),
		Title: m.defaultTitle,
		Time:  formatTime(now),
		Type:  TypeInfo,
	}
	if id, ok := firstOf(obj, idFields); ok {
		msg.ID = id
	}
	if title, ok := firstOf(obj, titleFields); ok {
		msg.Title = title
	}
	msg.Message, _ = firstOf(obj, messageFields)
	if t, ok := firstOf(obj, timeFields); ok {
		msg.Time = t
	}
	if kind, ok := firstOf(obj, typeFields); ok && NotificationType(kind).Valid() {
		msg.Type = NotificationType(kind)
	}
	return msg
}

func decodeObject(payload string) (map[string]any, bool) {
	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()

	var obj map[string]any
	if err := decoder.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	// 物件之後還有其他內容時不視為合法的 JSON
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}

func syntheticID(now time.Time) string {
	return fmt.Sprintf("notification_%d", now.UnixMilli())
}
