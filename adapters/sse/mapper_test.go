package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var mapperNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestMapper() *Mapper {
	return NewMapper(func() time.Time { return mapperNow }, "", "")
}

func TestMapper_Map(t *testing.T) {
	const (
		nowISO = "2024-05-01T08:00:00.000Z"
		nowID  = "notification_1714550400000"
	)

	tests := []struct {
		name    string
		payload string
		want    NotificationMessage
	}{
		{
			name:    "all fields present",
			payload: `{"id":"n1","title":"T","message":"M","time":"2024-01-02T03:04:05Z","type":"warning","read":true}`,
			want: NotificationMessage{
				ID: "n1", Title: "T", Message: "M", Time: "2024-01-02T03:04:05Z", Type: TypeWarning,
			},
		},
		{
			name:    "defaults",
			payload: `{}`,
			want: NotificationMessage{
				ID: nowID, Title: DefaultTitle, Message: "", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "content is used when message is absent",
			payload: `{"content":"from content","msg":"from msg"}`,
			want: NotificationMessage{
				ID: nowID, Title: DefaultTitle, Message: "from content", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "msg is the last alternative",
			payload: `{"message":"","msg":"from msg"}`,
			want: NotificationMessage{
				ID: nowID, Title: DefaultTitle, Message: "from msg", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "numeric id is kept verbatim",
			payload: `{"id":12345678901234567890,"message":"M"}`,
			want: NotificationMessage{
				ID: "12345678901234567890", Title: DefaultTitle, Message: "M", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "zero and empty values fall back",
			payload: `{"id":0,"title":"","type":""}`,
			want: NotificationMessage{
				ID: nowID, Title: DefaultTitle, Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "unknown type falls back to info",
			payload: `{"id":"n1","type":"urgent"}`,
			want: NotificationMessage{
				ID: "n1", Title: DefaultTitle, Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "non string values are ignored",
			payload: `{"id":"n1","message":{"nested":true},"content":["x"],"msg":true}`,
			want: NotificationMessage{
				ID: "n1", Title: DefaultTitle, Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "plain text",
			payload: "hello world",
			want: NotificationMessage{
				ID: nowID, Title: FallbackTitle, Message: "hello world", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "json that is not an object",
			payload: `"quoted"`,
			want: NotificationMessage{
				ID: nowID, Title: FallbackTitle, Message: `"quoted"`, Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "json null",
			payload: "null",
			want: NotificationMessage{
				ID: nowID, Title: FallbackTitle, Message: "null", Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "trailing garbage",
			payload: `{"id":"n1"} tail`,
			want: NotificationMessage{
				ID: nowID, Title: FallbackTitle, Message: `{"id":"n1"} tail`, Time: nowISO, Type: TypeInfo,
			},
		},
		{
			name:    "truncated object",
			payload: `{"id":"n1"`,
			want: NotificationMessage{
				ID: nowID, Title: FallbackTitle, Message: `{"id":"n1"`, Time: nowISO, Type: TypeInfo,
			},
		},
	}

	mapper := newTestMapper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapper.Map(tt.payload)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Read)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestMapper_CustomTitles(t *testing.T) {
	mapper := NewMapper(func() time.Time { return mapperNow }, "新消息", "系统通知")

	assert.Equal(t, "新消息", mapper.Map(`{"message":"x"}`).Title)
	assert.Equal(t, "系统通知", mapper.Map("x").Title)
}

func TestMapper_NilClock(t *testing.T) {
	mapper := NewMapper(nil, "", "")
	msg := mapper.Map("x")

	ts, err := time.Parse(time.RFC3339Nano, msg.Time)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
