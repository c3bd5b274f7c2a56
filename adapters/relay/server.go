package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pushnotify/adapters/sse"
	"pushnotify/api/openapi"
)

// Recorder 接收轉送相關的指標
type Recorder interface {
	RecordRelayClients(n int)
	RecordRelayDropped()
}

type nopRecorder struct{}

func (nopRecorder) RecordRelayClients(int) {}

func (nopRecorder) RecordRelayDropped() {}

type serverOptions struct {
	logger     *slog.Logger
	gatherer   prometheus.Gatherer
	recorder   Recorder
	keepAlive  time.Duration
	bufferSize int
}

type ServerOption func(*serverOptions)

// WithLogger 設置日誌記錄器
func WithLogger(logger *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithGatherer 設置 /metrics 使用的指標來源，未設置時不提供 /metrics
func WithGatherer(gatherer prometheus.Gatherer) ServerOption {
	return func(o *serverOptions) {
		o.gatherer = gatherer
	}
}

// WithRecorder 設置指標記錄器
func WithRecorder(recorder Recorder) ServerOption {
	return func(o *serverOptions) {
		o.recorder = recorder
	}
}

// WithKeepAlive 設置沒有通知時送出心跳的間隔
func WithKeepAlive(d time.Duration) ServerOption {
	return func(o *serverOptions) {
		o.keepAlive = d
	}
}

// WithBufferSize 設置每個串流客戶端的緩衝大小
func WithBufferSize(size int) ServerOption {
	return func(o *serverOptions) {
		o.bufferSize = size
	}
}

var _ openapi.StrictServerInterface = (*Server)(nil)

// Server 將通知以 SSE 轉送給本機的 UI 客戶端，並提供通道的控制介面
type Server struct {
	channel  sse.IChannel
	hub      *Hub[sse.NotificationMessage]
	policy   *bluemonday.Policy
	engine   *gin.Engine
	logger   *slog.Logger
	recorder Recorder
	options  serverOptions
}

// NewServer 建立 Server，channel 為 nil 時不提供控制介面
func NewServer(channel sse.IChannel, opts ...ServerOption) *Server {
	// 默認選項
	options := serverOptions{
		logger:     slog.Default(),
		recorder:   nopRecorder{},
		keepAlive:  30 * time.Second,
		bufferSize: 16,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	s := &Server{
		channel:  channel,
		hub:      NewHub[sse.NotificationMessage](options.bufferSize),
		policy:   bluemonday.StrictPolicy(),
		engine:   gin.New(),
		logger:   options.logger.With(slog.String("caller", "RelayServer")),
		recorder: options.recorder,
		options:  options,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/notifications/stream", s.stream)
	if s.channel != nil {
		control := s.engine.Group("", renderBindErrors)
		handler := openapi.NewStrictHandler(s, []openapi.StrictMiddlewareFunc{s.logOperation})
		openapi.RegisterHandlers(control, handler)
	}
	if s.options.gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.options.gatherer, promhttp.HandlerOpts{})))
	}
}

// Handler 回傳 HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Publish 清理文字內容後廣播給所有串流客戶端，可直接註冊為 sse.Handler
func (s *Server) Publish(msg sse.NotificationMessage) {
	msg.Title = s.policy.Sanitize(msg.Title)
	msg.Message = s.policy.Sanitize(msg.Message)

	_, dropped := s.hub.Broadcast(msg)
	for i := 0; i < dropped; i++ {
		s.recorder.RecordRelayDropped()
	}
	if dropped > 0 {
		s.logger.Warn("notification dropped for slow clients",
			slog.String("notificationId", msg.ID),
			slog.Int("dropped", dropped))
	}
}

// Feed 轉送 source 的通知，直到 source 關閉或 ctx 結束
func (s *Server) Feed(ctx context.Context, source <-chan sse.NotificationMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-source:
			if !ok {
				return
			}
			s.Publish(msg)
		}
	}
}

// Close 結束所有串流客戶端
func (s *Server) Close() {
	s.hub.Close()
	s.recorder.RecordRelayClients(0)
}

// Clients 回傳目前的串流客戶端數量
func (s *Server) Clients() int {
	return s.hub.Len()
}

// stream 處理 GET /notifications/stream
func (s *Server) stream(c *gin.Context) {
	sub := s.hub.Subscribe()
	s.recorder.RecordRelayClients(s.hub.Len())
	logger := s.logger.With(slog.String("clientId", sub.ID))
	logger.Info("relay client connected")
	defer func() {
		s.hub.Unsubscribe(sub)
		s.recorder.RecordRelayClients(s.hub.Len())
		logger.Info("relay client disconnected")
	}()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	keepAlive := time.NewTicker(s.options.keepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			c.SSEvent("notification", msg)
			w.Flush()
		// 沒有通知時送出註解行，避免代理伺服器斷開閒置連線
		case <-keepAlive.C:
			_, _ = w.WriteString(": keepalive\n\n")
			w.Flush()
		}
	}
}

// logOperation 記錄控制介面的呼叫
func (s *Server) logOperation(next openapi.StrictHandlerFunc, operationID string) openapi.StrictHandlerFunc {
	return func(c *gin.Context, request interface{}) (interface{}, error) {
		s.logger.Debug("control request", slog.String("operation", operationID))
		return next(c, request)
	}
}

// renderBindErrors 讓無法解析的請求內容也回傳 JSON 錯誤
func renderBindErrors(c *gin.Context) {
	c.Next()
	if c.Writer.Written() || len(c.Errors) == 0 {
		return
	}
	if status := c.Writer.Status(); status == http.StatusBadRequest {
		c.JSON(status, openapi.Error{Message: "invalid request body"})
	}
}

// GetChannelStatus 處理 GET /channel/status
func (s *Server) GetChannelStatus(_ context.Context, _ openapi.GetChannelStatusRequestObject) (openapi.GetChannelStatusResponseObject, error) {
	return openapi.GetChannelStatus200JSONResponse(s.snapshot()), nil
}

func (s *Server) snapshot() openapi.ChannelStatus {
	resp := openapi.ChannelStatus{
		State:     openapi.ChannelState(s.channel.State().String()),
		Connected: s.channel.IsConnected(),
		Attempts:  s.channel.Attempts(),
	}
	if identity, ok := s.channel.Identity(); ok {
		resp.Identity = lo.ToPtr(identity.String())
	}
	return resp
}

// PostChannelConnect 處理 POST /channel/connect
func (s *Server) PostChannelConnect(_ context.Context, request openapi.PostChannelConnectRequestObject) (openapi.PostChannelConnectResponseObject, error) {
	if request.Body == nil || request.Body.Identity == "" {
		return openapi.PostChannelConnect400JSONResponse{Message: "identity is required"}, nil
	}

	err := s.channel.Connect(sse.Identity(request.Body.Identity))
	switch {
	case errors.Is(err, sse.ErrCredentialMissing):
		return openapi.PostChannelConnect409JSONResponse{Message: "credential missing"}, nil
	case err != nil:
		s.logger.Warn("connect rejected", slog.Any("error", err))
		return openapi.PostChannelConnect400JSONResponse{Message: err.Error()}, nil
	}
	return openapi.PostChannelConnect202JSONResponse(s.snapshot()), nil
}

// PostChannelDisconnect 處理 POST /channel/disconnect
func (s *Server) PostChannelDisconnect(_ context.Context, _ openapi.PostChannelDisconnectRequestObject) (openapi.PostChannelDisconnectResponseObject, error) {
	s.channel.Disconnect()
	return openapi.PostChannelDisconnect204Response{}, nil
}
