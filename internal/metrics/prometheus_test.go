package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(WithRegistry(reg), WithNamespace("test"), WithSubsystem("client"))

	m.IncConns()
	m.AddReceivedBytes(100)
	m.AddReceivedBytes(28)
	m.AddSentBytes(5)
	m.IncFrames("S->C")
	m.IncFrames("S->C")
	m.IncFrames("C->S")
	m.IncEvents("chat")
	m.IncErrors("decode")
	m.ObserveConnDuration(2 * time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeConns))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.receivedBytes))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.sentBytes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames.WithLabelValues("S->C")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("C->S")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("chat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("decode")))

	m.DecConns()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeConns))

	expected := `
# HELP test_client_sent_bytes_total Total bytes written to sockets
# TYPE test_client_sent_bytes_total counter
test_client_sent_bytes_total 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_client_sent_bytes_total"))
	require.NoError(t, m.Close())
}

func TestPrometheusDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(WithRegistry(reg))
	assert.Panics(t, func() { NewPrometheus(WithRegistry(reg)) })
}

func TestNoop(t *testing.T) {
	var c Collector = Noop{}
	c.IncConns()
	c.AddSentBytes(1)
	c.IncErrors("read")
	assert.NoError(t, c.Close())

	assert.Equal(t, Noop{}, OrNoop(nil))
	p := NewPrometheus(WithRegistry(prometheus.NewRegistry()))
	assert.Same(t, p, OrNoop(p))
}
