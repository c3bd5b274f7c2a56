package sse_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"pushnotify/adapters/clock"
	"pushnotify/adapters/sse"
)

func init() {
	// 將日誌輸出重定向到io.Discard
	log.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)
}

const testDelay = sse.DefaultReconnectDelay

var testEpoch = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

// staticCredentials 以 map 提供憑證
type staticCredentials map[string]string

func (s staticCredentials) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

var validCredentials = staticCredentials{sse.CredentialKey: "secret-token"}

type recordedRequest struct {
	identity string
	path     string
	rawQuery string
	header   http.Header
}

// streamServer 是測試用的推播伺服器，記錄每次請求
type streamServer struct {
	*httptest.Server
	hits     atomic.Int32
	active   atomic.Int32
	mu       sync.Mutex
	requests []recordedRequest
}

// newStreamServer 建立伺服器，handler 依第幾次請求 (從 1 開始) 決定回應方式
func newStreamServer(t *testing.T, handler func(hit int) gin.HandlerFunc) *streamServer {
	t.Helper()
	s := &streamServer{}
	router := gin.New()
	router.GET("/api/sse/connect/:identity", func(c *gin.Context) {
		hit := int(s.hits.Add(1))
		s.active.Add(1)
		defer s.active.Add(-1)

		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			identity: c.Param("identity"),
			path:     c.Request.URL.EscapedPath(),
			rawQuery: c.Request.URL.RawQuery,
			header:   c.Request.Header.Clone(),
		})
		s.mu.Unlock()

		handler(hit)(c)
	})
	s.Server = httptest.NewServer(router)
	return s
}

// always 讓每次請求都使用同一種回應
func always(h gin.HandlerFunc) func(int) gin.HandlerFunc {
	return func(int) gin.HandlerFunc { return h }
}

func (s *streamServer) endpoint() string {
	return s.URL + "/api/sse/connect"
}

func (s *streamServer) request(i int) recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func (s *streamServer) hitCount() int {
	return int(s.hits.Load())
}

// beginStream 送出回應標頭，讓客戶端完成請求
func beginStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
}

func writeChunk(c *gin.Context, chunk string) {
	_, _ = c.Writer.Write([]byte(chunk))
	c.Writer.Flush()
}

// sendAndClose 送出所有區塊後正常結束串流
func sendAndClose(chunks ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		beginStream(c)
		for _, chunk := range chunks {
			writeChunk(c, chunk)
		}
	}
}

// sendAndHold 送出所有區塊後保持連線直到客戶端離開
func sendAndHold(chunks ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		beginStream(c)
		for _, chunk := range chunks {
			writeChunk(c, chunk)
		}
		<-c.Request.Context().Done()
	}
}

// abortAfter 宣告比實際更長的內容，送出 chunk 後中斷連線
func abortAfter(chunk string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Content-Length", "1000")
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
		writeChunk(c, chunk)
		panic(http.ErrAbortHandler)
	}
}

func respondStatus(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(status, "unavailable")
	}
}

func newTestChannel(t *testing.T, endpoint string, creds sse.ICredentialSupplier, opts ...sse.Option) (*sse.Channel, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(testEpoch)
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	base := []sse.Option{
		sse.WithClock(clk),
		sse.WithHTTPClient(client),
	}
	ch, err := sse.NewChannel(endpoint, creds, append(base, opts...)...)
	require.NoError(t, err)
	return ch, clk
}

// collector 收集派送的通知
type collector struct {
	ch chan sse.NotificationMessage
}

func newCollector() *collector {
	return &collector{ch: make(chan sse.NotificationMessage, 64)}
}

func (c *collector) handle(msg sse.NotificationMessage) {
	c.ch <- msg
}

func (c *collector) next(t *testing.T) sse.NotificationMessage {
	t.Helper()
	select {
	case msg := <-c.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive notification in time")
	}
	return sse.NotificationMessage{}
}

func (c *collector) empty(t *testing.T) {
	t.Helper()
	select {
	case msg := <-c.ch:
		t.Fatalf("unexpected notification: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
