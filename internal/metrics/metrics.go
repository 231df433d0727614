// Package metrics records connection and dispatch counters.
package metrics

import "time"

// Collector is fed by the I/O driver, the proxy and the dispatcher.
type Collector interface {
	// Connection metrics
	IncConns()
	DecConns()
	ObserveConnDuration(duration time.Duration)

	// Data transfer metrics
	AddReceivedBytes(bytes int)
	AddSentBytes(bytes int)
	IncFrames(direction string)

	// Dispatch metrics
	IncEvents(kind string)

	// Error metrics, by kind: read, write, framing, decode, subscriber
	IncErrors(kind string)

	Close() error
}

type Noop struct{}

func (Noop) IncConns()                                  {}
func (Noop) DecConns()                                  {}
func (Noop) ObserveConnDuration(duration time.Duration) {}
func (Noop) AddReceivedBytes(bytes int)                 {}
func (Noop) AddSentBytes(bytes int)                     {}
func (Noop) IncFrames(direction string)                 {}
func (Noop) IncEvents(kind string)                      {}
func (Noop) IncErrors(kind string)                      {}
func (Noop) Close() error                               { return nil }

var _ Collector = Noop{}

// OrNoop returns c, or Noop when c is nil.
func OrNoop(c Collector) Collector {
	if c == nil {
		return Noop{}
	}
	return c
}
