package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/metrics"
	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/replay"
	"github.com/Versifine/dune/internal/session"
)

type Option func(*Server)

// WithSubscriber receives the events of every proxied connection. Calls are
// serialized across connections.
func WithSubscriber(sub event.Subscriber) Option {
	return func(s *Server) {
		s.subscriber = sub
	}
}

// WithRecorder records every observed packet of every connection.
func WithRecorder(r *replay.Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

func WithMetrics(m metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = metrics.OrNoop(m)
	}
}

func WithMaxFrameSize(n int) Option {
	return func(s *Server) {
		s.maxFrameSize = n
	}
}

type Server struct {
	listenerAddr string
	backendAddr  string
	subscriber   event.Subscriber
	recorder     *replay.Recorder
	metrics      metrics.Collector
	maxFrameSize int
}

func NewServer(listenerAddr, backendAddr string, opts ...Option) *Server {
	s := &Server{
		listenerAddr: listenerAddr,
		backendAddr:  backendAddr,
		metrics:      metrics.Noop{},
		maxFrameSize: protocol.MaxPacketSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.subscriber == nil {
		s.subscriber = event.NopSubscriber{}
	}
	s.subscriber = locked(s.subscriber)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("Starting proxy server", "listenerAddr", s.listenerAddr, "backendAddr", s.backendAddr)
	netListener, err := net.Listen("tcp", s.listenerAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, netListener)
}

// Serve accepts connections on ln until ctx is done, then waits for the
// open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() {
		slog.Info("Shutting down proxy server")
		_ = ln.Close()
	})
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				slog.Info("Proxy server stopped")
				return nil
			}
			slog.Error("Error accepting connection", "error", err)
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			closeOnDone := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer closeOnDone()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(clientConn net.Conn) {
	defer clientConn.Close()
	// Disable Nagle's algorithm for lower latency
	if tcpConn, ok := clientConn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	backendConn, err := net.Dial("tcp", s.backendAddr)
	if err != nil {
		slog.Error("Error connecting to backend", "error", err)
		s.metrics.IncErrors("dial")
		return
	}
	if tcpConn, ok := backendConn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	defer backendConn.Close()

	start := time.Now()
	s.metrics.IncConns()
	defer func() {
		s.metrics.DecConns()
		s.metrics.ObserveConnDuration(time.Since(start))
	}()

	obs := &observer{
		disp:     event.NewDispatcher(s.subscriber, event.WithMetrics(s.metrics)),
		recorder: s.recorder,
		metrics:  s.metrics,
	}

	slog.Info("Proxying connection", "client", clientConn.RemoteAddr(), "backend", s.backendAddr)
	var wg sync.WaitGroup
	wg.Add(2)
	pipe := func(src, dst net.Conn, dir protocol.Direction) {
		defer wg.Done()
		// either side ending tears down both
		defer src.Close()
		defer dst.Close()
		sess := session.New(session.WithMaxFrameSize(s.maxFrameSize))
		if err := relay(src, dst, dir, sess, obs); err != nil {
			slog.Error("Error relaying packets", "direction", dir, "error", err)
		}
	}
	go pipe(clientConn, backendConn, protocol.C2S)
	go pipe(backendConn, clientConn, protocol.S2C)
	wg.Wait()
	slog.Info("Connection closed", "client", clientConn.RemoteAddr(), "state", obs.disp.State())
}
