package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pushnotify/adapters/clock"
)

// connectionHandle 代表一次串流嘗試，只由 Channel 持有，取消後不再重用。
type connectionHandle struct {
	ctx       context.Context
	cancel    context.CancelFunc
	identity  Identity
	createdAt time.Time
}

// pendingReconnect 代表一個已排程的重連
type pendingReconnect struct {
	identity Identity
	timer    clock.Timer
}

// Channel 管理單一推播串流的生命週期：建立請求、讀取並解析串流、
// 派送通知，以及在串流中斷時依重連策略重新連線。
// 同一個 Channel 任何時刻最多只有一條串流。
type Channel struct {
	endpoint    *url.URL
	credentials ICredentialSupplier
	registry    *Registry
	mapper      *Mapper
	logger      *slog.Logger
	options     channelOptions

	mu          sync.Mutex     // 保護以下所有欄位
	wg          sync.WaitGroup // 等待讀取 goroutine 結束
	state       State
	handle      *connectionHandle
	pending     *pendingReconnect
	identity    Identity
	hasIdentity bool
	attempts    int
	epoch       uint64 // 每次 Connect / Disconnect 遞增，讓過期的重連失效
}

var _ IChannel = (*Channel)(nil)

// NewChannel 建立一個閒置中的 Channel。
// endpoint 是串流端點的前綴，實際請求的路徑為 endpoint/<identity>。
func NewChannel(endpoint string, credentials ICredentialSupplier, opts ...Option) (*Channel, error) {
	if endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}
	if credentials == nil {
		return nil, errors.New("credential supplier cannot be nil")
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	// 默認選項
	options := channelOptions{
		logger:         slog.Default(),
		httpClient:     &http.Client{},
		clock:          clock.Real(),
		policy:         DefaultReconnectPolicy(),
		observer:       nopObserver{},
		credentialKey:  CredentialKey,
		readBufferSize: 4096,
		maxLineLength:  DefaultMaxLineLength,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	if err := options.policy.Validate(); err != nil {
		return nil, err
	}
	if options.readBufferSize <= 0 {
		return nil, errors.New("read buffer size must be positive")
	}

	return &Channel{
		endpoint:    base,
		credentials: credentials,
		registry:    NewRegistry(options.logger),
		mapper:      NewMapper(options.clock.Now, options.defaultTitle, options.fallbackTitle),
		logger:      options.logger.With(slog.String("caller", "Channel")),
		options:     options,
		state:       StateIdle,
	}, nil
}

// Subscribe 註冊訊息處理器
func (c *Channel) Subscribe(handler Handler) func() {
	return c.registry.Subscribe(handler)
}

// Connect 以 identity 建立串流並立即返回。
// 空字串與 "."、".." 會以 ErrInvalidIdentity 拒絕。
// 查無憑證時記錄後回傳 ErrCredentialMissing，不影響現有連線；
// 否則先拆除現有的串流與重連計時器，重置重連次數後再開始新的連線。
func (c *Channel) Connect(identity Identity) error {
	const op = "sse.Channel.Connect"
	switch identity {
	case "":
		return fmt.Errorf("%s: identity cannot be empty: %w", op, ErrInvalidIdentity)
	case ".", "..":
		return fmt.Errorf("%s: identity %q is a dot segment: %w", op, identity, ErrInvalidIdentity)
	}

	credential, ok := c.lookupCredential()
	if !ok {
		c.logger.Error("connect aborted, credential missing",
			slog.String("identity", identity.String()),
			slog.String("credentialKey", c.options.credentialKey))
		return fmt.Errorf("%s: %w", op, ErrCredentialMissing)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil || c.pending != nil {
		c.logger.Info("tearing down existing connection",
			slog.String("identity", c.identity.String()))
	}
	c.teardownLocked()
	c.attempts = 0
	c.identity = identity
	c.hasIdentity = true
	c.startLocked(identity, credential)
	return nil
}

// Disconnect 取消目前的串流與重連計時器並回到閒置狀態。
// 沒有連線或重複呼叫時不會有任何效果；不等待讀取 goroutine 結束，
// 因此可以在訊息處理器中呼叫。
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil || c.pending != nil {
		c.logger.Info("disconnecting", slog.String("identity", c.identity.String()))
	}
	if c.state != StateIdle {
		c.setStateLocked(StateClosing)
	}
	c.teardownLocked()
	c.attempts = 0
	c.identity = ""
	c.hasIdentity = false
	c.setStateLocked(StateIdle)
}

// Close 中斷連線並等待讀取 goroutine 結束，不可在訊息處理器中呼叫。
func (c *Channel) Close() {
	c.Disconnect()
	c.wg.Wait()
}

// IsConnected 判斷串流是否已開啟
func (c *Channel) IsConnected() bool {
	return c.State() == StateOpen
}

// State 回傳目前的連線狀態
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts 回傳連續重連的次數
func (c *Channel) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Identity 回傳目前使用的身分
func (c *Channel) Identity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.hasIdentity
}

func (c *Channel) lookupCredential() (string, bool) {
	credential, ok := c.credentials.Lookup(c.options.credentialKey)
	return credential, ok && credential != ""
}

func (c *Channel) teardownLocked() {
	c.epoch++
	if c.handle != nil {
		c.handle.cancel()
		c.handle = nil
	}
	if c.pending != nil {
		c.pending.timer.Stop()
		c.pending = nil
	}
}

func (c *Channel) setStateLocked(to State) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to
	c.options.observer.StateChanged(from, to)
	c.logger.Debug("state changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

func (c *Channel) startLocked(identity Identity, credential string) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &connectionHandle{
		ctx:       ctx,
		cancel:    cancel,
		identity:  identity,
		createdAt: c.options.clock.Now(),
	}
	c.handle = h
	c.setStateLocked(StateConnecting)

	c.wg.Add(1)
	go c.run(h, credential)
}

// run 執行一次串流嘗試，並在串流非預期結束時排程重連
func (c *Channel) run(h *connectionHandle, credential string) {
	defer c.wg.Done()

	err := c.stream(h, credential)

	c.mu.Lock()
	defer c.mu.Unlock()

	// 已被 Disconnect 或新的 Connect 取代
	if c.handle != h || h.ctx.Err() != nil {
		c.logger.Debug("stream cancelled", slog.String("identity", h.identity.String()))
		return
	}
	h.cancel()
	c.handle = nil

	if errors.Is(err, errStreamEnded) {
		c.logger.Info("stream ended by server",
			slog.String("identity", h.identity.String()),
			slog.Duration("lifetime", c.options.clock.Now().Sub(h.createdAt)))
	} else {
		c.logger.Warn("stream failed",
			slog.String("identity", h.identity.String()),
			slog.Any("error", err))
	}
	c.scheduleReconnectLocked(h.identity)
}

func (c *Channel) stream(h *connectionHandle, credential string) error {
	const op = "sse.Channel.stream"

	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, c.endpointFor(h.identity), nil)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", c.authorization(credential))
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	c.logger.Info("connecting", slog.String("identity", h.identity.String()))
	resp, err := c.options.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s: %w", op, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	reader := newChunkReader(resp.Body)
	parser := NewFrameParser(c.options.legacyFraming)
	parser.SetMaxLineLength(c.options.maxLineLength)
	buf := make([]byte, c.options.readBufferSize)
	opened := false
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if !opened {
				opened = true
				c.markOpen(h)
			}
			c.handleChunk(h, parser, string(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			if parser.Buffered() > 0 {
				c.logger.Debug("discarding incomplete line at end of stream",
					slog.Int("bytes", parser.Buffered()))
			}
			return errStreamEnded
		}
		if err != nil {
			return fmt.Errorf("%s: read failed: %w", op, err)
		}
	}
}

// markOpen 在收到第一個位元組時將狀態轉為 Open 並重置重連次數
func (c *Channel) markOpen(h *connectionHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != h {
		return
	}
	c.attempts = 0
	c.setStateLocked(StateOpen)
	c.logger.Info("stream opened", slog.String("identity", h.identity.String()))
}

// handleChunk 依收到的順序解析並派送通知，串流被取消後不再派送
func (c *Channel) handleChunk(h *connectionHandle, parser *FrameParser, chunk string) {
	frames := parser.Feed(chunk)
	if n := parser.Discarded(); n > 0 {
		c.logger.Warn("line exceeds length limit, discarded",
			slog.String("identity", h.identity.String()),
			slog.Int("bytes", n),
			slog.Int("limit", c.options.maxLineLength))
	}
	for _, frame := range frames {
		if h.ctx.Err() != nil {
			return
		}
		c.options.observer.FrameReceived()
		msg := c.mapper.Map(frame)
		failed := c.registry.Dispatch(msg)
		c.options.observer.NotificationDispatched(msg, failed)
	}
}

func (c *Channel) scheduleReconnectLocked(identity Identity) {
	delay, ok := c.options.policy.Next(c.attempts)
	if !ok {
		c.logger.Error("reconnect attempts exhausted, giving up",
			slog.String("identity", identity.String()),
			slog.Int("attempts", c.attempts))
		c.setStateLocked(StateIdle)
		c.options.observer.ReconnectExhausted(c.attempts)
		return
	}

	c.attempts++
	p := &pendingReconnect{identity: identity}
	p.timer = c.options.clock.AfterFunc(delay, func() {
		c.reconnect(p)
	})
	c.pending = p
	c.setStateLocked(StateReconnecting)
	c.options.observer.ReconnectScheduled(c.attempts, delay)
	c.logger.Info("reconnect scheduled",
		slog.String("identity", identity.String()),
		slog.Int("attempt", c.attempts),
		slog.Duration("delay", delay))
}

// reconnect 由重連計時器呼叫；計時器已被取消或取代時不做任何事
func (c *Channel) reconnect(p *pendingReconnect) {
	c.mu.Lock()
	if c.pending != p {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	epoch := c.epoch
	c.mu.Unlock()

	credential, ok := c.lookupCredential()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	if !ok {
		c.logger.Error("reconnect aborted, credential missing",
			slog.String("identity", p.identity.String()))
		c.setStateLocked(StateIdle)
		return
	}
	c.startLocked(p.identity, credential)
}

// endpointFor 將身分接在端點路徑之後，不做路徑正規化
func (c *Channel) endpointFor(identity Identity) string {
	u := *c.endpoint
	u.RawPath = strings.TrimSuffix(c.endpoint.EscapedPath(), "/") + "/" + url.PathEscape(identity.String())
	u.Path, _ = url.PathUnescape(u.RawPath)
	return u.String()
}

func (c *Channel) authorization(credential string) string {
	if c.options.authScheme == "" {
		return credential
	}
	return c.options.authScheme + " " + credential
}
