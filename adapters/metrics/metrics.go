package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pushnotify/adapters/sse"
)

const namespace = "pushnotify"

var allStates = []sse.State{
	sse.StateIdle,
	sse.StateConnecting,
	sse.StateOpen,
	sse.StateClosing,
	sse.StateReconnecting,
}

// Metrics 收集推播串流與本地轉送的 Prometheus 指標
type Metrics struct {
	// 串流指標
	ChannelState            *prometheus.GaugeVec
	StateTransitions        *prometheus.CounterVec
	FramesReceived          prometheus.Counter
	NotificationsDispatched *prometheus.CounterVec
	HandlerFailures         prometheus.Counter
	ReconnectsScheduled     prometheus.Counter
	ReconnectDelay          prometheus.Histogram
	ReconnectsExhausted     prometheus.Counter

	// 轉送指標
	RelayClients prometheus.Gauge
	RelayDropped prometheus.Counter
}

var _ sse.Observer = (*Metrics)(nil)

// NewMetrics 建立所有指標，初始狀態為 idle
func NewMetrics() *Metrics {
	m := &Metrics{
		ChannelState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "state",
				Help:      "Current connection state (1 for the active state, 0 otherwise)",
			},
			[]string{"state"},
		),

		StateTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "state_transitions_total",
				Help:      "Total number of connection state transitions",
			},
			[]string{"from", "to"},
		),

		FramesReceived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "frames_received_total",
				Help:      "Total number of data frames received",
			},
		),

		NotificationsDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "notifications_dispatched_total",
				Help:      "Total number of notifications dispatched to subscribers",
			},
			[]string{"type"},
		),

		HandlerFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "handler_failures_total",
				Help:      "Total number of subscriber invocations that panicked",
			},
		),

		ReconnectsScheduled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "reconnects_scheduled_total",
				Help:      "Total number of reconnect attempts scheduled",
			},
		),

		ReconnectDelay: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "reconnect_delay_seconds",
				Help:      "Delay before each scheduled reconnect in seconds",
				Buckets:   []float64{0.5, 1, 3, 5, 10, 30, 60},
			},
		),

		ReconnectsExhausted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "reconnects_exhausted_total",
				Help:      "Total number of times the reconnect limit was reached",
			},
		),

		RelayClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "relay",
				Name:      "clients",
				Help:      "Number of connected relay clients",
			},
		),

		RelayDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "relay",
				Name:      "dropped_total",
				Help:      "Total number of notifications dropped for slow relay clients",
			},
		),
	}
	m.setState(sse.StateIdle)
	return m
}

// Register 將所有指標註冊到 registerer
func (m *Metrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ChannelState,
		m.StateTransitions,
		m.FramesReceived,
		m.NotificationsDispatched,
		m.HandlerFailures,
		m.ReconnectsScheduled,
		m.ReconnectDelay,
		m.ReconnectsExhausted,
		m.RelayClients,
		m.RelayDropped,
	}
	var errs []error
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	return nil
}

func (m *Metrics) setState(active sse.State) {
	for _, s := range allStates {
		value := 0.0
		if s == active {
			value = 1.0
		}
		m.ChannelState.WithLabelValues(s.String()).Set(value)
	}
}

// StateChanged 更新狀態指標
func (m *Metrics) StateChanged(from, to sse.State) {
	m.setState(to)
	m.StateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// FrameReceived increments the frame counter
func (m *Metrics) FrameReceived() {
	m.FramesReceived.Inc()
}

// NotificationDispatched 依通知類型計數，並累計失敗的訂閱者
func (m *Metrics) NotificationDispatched(msg sse.NotificationMessage, failed int) {
	m.NotificationsDispatched.WithLabelValues(string(msg.Type)).Inc()
	if failed > 0 {
		m.HandlerFailures.Add(float64(failed))
	}
}

// ReconnectScheduled records the attempt and its delay
func (m *Metrics) ReconnectScheduled(_ int, delay time.Duration) {
	m.ReconnectsScheduled.Inc()
	m.ReconnectDelay.Observe(delay.Seconds())
}

// ReconnectExhausted increments the give-up counter
func (m *Metrics) ReconnectExhausted(int) {
	m.ReconnectsExhausted.Inc()
}

// RecordRelayClients 設定目前的轉送客戶端數量
func (m *Metrics) RecordRelayClients(n int) {
	m.RelayClients.Set(float64(n))
}

// RecordRelayDropped 累計因客戶端過慢而丟棄的通知
func (m *Metrics) RecordRelayDropped() {
	m.RelayDropped.Inc()
}
