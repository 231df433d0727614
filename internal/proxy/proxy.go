// Package proxy relays a Minecraft connection between a client and a backend
// server while observing the traffic through an event.Dispatcher.
package proxy

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/metrics"
	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/replay"
	"github.com/Versifine/dune/internal/session"
)

const relayBufferSize = 32 * 1024

// observer feeds both directions of one connection into a shared
// dispatcher. After a framing or decode error the connection is relayed
// blind, since the tracked state can no longer be trusted.
type observer struct {
	mu       sync.Mutex
	disp     *event.Dispatcher
	recorder *replay.Recorder
	metrics  metrics.Collector
	blind    bool
}

func (o *observer) observe(dir protocol.Direction, frames []session.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range frames {
		if o.blind {
			return nil
		}
		o.metrics.IncFrames(dir.String())
		pkt, err := protocol.ParsePacket(f.Payload)
		if err != nil {
			o.metrics.IncErrors("decode")
			o.stop(dir, err)
			return nil
		}
		if o.recorder != nil {
			if err := o.recorder.Record(dir, pkt); err != nil {
				slog.Warn("Recording failed", "error", err)
				o.recorder = nil
			}
		}
		err = o.disp.HandlePacket(dir, pkt)
		switch {
		case err == nil:
		case errors.Is(err, event.ErrSubscriberFailure):
			return err
		case errors.Is(err, event.ErrDisconnected):
			slog.Info("Server disconnected client", "reason", err)
		default:
			o.metrics.IncErrors("decode")
			o.stop(dir, err)
			return nil
		}
	}
	return nil
}

func (o *observer) framingFailed(dir protocol.Direction, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metrics.IncErrors("framing")
	o.stop(dir, err)
}

func (o *observer) stop(dir protocol.Direction, err error) {
	if o.blind {
		return
	}
	o.blind = true
	slog.Warn("Stopped observing connection", "direction", dir, "error", err)
}

// relay copies src to dst until either side fails. Each chunk is observed
// before it is forwarded, so the dispatcher sees a request before the
// response it causes. Observation never alters the forwarded bytes.
func relay(src, dst net.Conn, dir protocol.Direction, sess *session.Session, obs *observer) error {
	buf := make([]byte, relayBufferSize)
	observing := true
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if observing {
				frames, ferr := sess.Feed(buf[:n])
				if oerr := obs.observe(dir, frames); oerr != nil {
					return oerr
				}
				if ferr != nil {
					obs.framingFailed(dir, ferr)
					observing = false
				}
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				if errors.Is(werr, net.ErrClosed) {
					return nil
				}
				return werr
			}
			obs.metrics.AddReceivedBytes(n)
			obs.metrics.AddSentBytes(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

type lockedSubscriber struct {
	mu  sync.Mutex
	sub event.Subscriber
}

// locked serializes calls into sub, which every proxied connection shares.
func locked(sub event.Subscriber) event.Subscriber {
	return &lockedSubscriber{sub: sub}
}

func (l *lockedSubscriber) OnChat(e event.Chat) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub.OnChat(e)
}

func (l *lockedSubscriber) OnPlayerInfo(e event.PlayerInfo) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub.OnPlayerInfo(e)
}

func (l *lockedSubscriber) OnPosition(e event.Position) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub.OnPosition(e)
}

func (l *lockedSubscriber) OnTrades(e event.Trades) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub.OnTrades(e)
}

func (l *lockedSubscriber) OnInteract(e event.Interact) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub.OnInteract(e)
}
