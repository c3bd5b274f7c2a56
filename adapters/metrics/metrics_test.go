package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pushnotify/adapters/sse"
)

func TestMetrics_Register(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics()

	require.NoError(t, m.Register(registry))

	err := m.Register(registry)
	assert.Error(t, err, "registering twice fails")
	assert.Contains(t, err.Error(), "failed to register metrics")

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "pushnotify_channel_state")
}

func TestMetrics_StateChanged(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChannelState.WithLabelValues("idle")))

	m.StateChanged(sse.StateIdle, sse.StateConnecting)
	m.StateChanged(sse.StateConnecting, sse.StateOpen)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.ChannelState.WithLabelValues("idle")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ChannelState.WithLabelValues("connecting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChannelState.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateTransitions.WithLabelValues("connecting", "open")))

	expected := `
# HELP pushnotify_channel_state Current connection state (1 for the active state, 0 otherwise)
# TYPE pushnotify_channel_state gauge
pushnotify_channel_state{state="closing"} 0
pushnotify_channel_state{state="connecting"} 0
pushnotify_channel_state{state="idle"} 0
pushnotify_channel_state{state="open"} 1
pushnotify_channel_state{state="reconnecting"} 0
`
	assert.NoError(t, testutil.CollectAndCompare(m.ChannelState, strings.NewReader(expected)))
}

func TestMetrics_Dispatch(t *testing.T) {
	m := NewMetrics()

	m.FrameReceived()
	m.FrameReceived()
	m.NotificationDispatched(sse.NotificationMessage{Type: sse.TypeInfo}, 0)
	m.NotificationDispatched(sse.NotificationMessage{Type: sse.TypeError}, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDispatched.WithLabelValues("info")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDispatched.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HandlerFailures))
}

func TestMetrics_Reconnect(t *testing.T) {
	m := NewMetrics()

	m.ReconnectScheduled(1, 3*time.Second)
	m.ReconnectScheduled(2, 3*time.Second)
	m.ReconnectExhausted(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReconnectsScheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconnectsExhausted))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReconnectDelay))
}

func TestMetrics_Relay(t *testing.T) {
	m := NewMetrics()

	m.RecordRelayClients(3)
	m.RecordRelayDropped()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RelayClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayDropped))
}
