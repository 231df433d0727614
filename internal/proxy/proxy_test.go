package proxy

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/metrics"
	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/session"
)

type countingMetrics struct {
	metrics.Noop
	mu     sync.Mutex
	errors map[string]int
}

func (m *countingMetrics) IncErrors(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = map[string]int{}
	}
	m.errors[kind]++
}

func feed(t *testing.T, pkts ...*protocol.Packet) []session.Frame {
	t.Helper()
	var raw []byte
	for _, p := range pkts {
		raw = append(raw, wire(p)...)
	}
	frames, err := session.New().Feed(raw)
	if err != nil {
		t.Fatalf("Feed() 错误: %v", err)
	}
	return frames
}

func newObserver(sub event.Subscriber, m metrics.Collector) *observer {
	return &observer{
		disp:    event.NewDispatcher(sub, event.WithMetrics(m)),
		metrics: m,
	}
}

// TestObserverGoesBlindOnDecodeError 解码失败后不再产生任何事件
func TestObserverGoesBlindOnDecodeError(t *testing.T) {
	var chats int
	m := &countingMetrics{}
	obs := newObserver(event.Funcs{Chat: func(event.Chat) error {
		chats++
		return nil
	}}, m)

	bad := protocol.CreateHandshakePacket(protocol.CurrentProtocolVersion, "localhost", 25565, 7)
	if err := obs.observe(protocol.C2S, feed(t, bad)); err != nil {
		t.Fatalf("observe() = %v, 期望 nil", err)
	}
	if !obs.blind {
		t.Fatal("解码失败后 blind 应为 true")
	}
	if m.errors["decode"] != 1 {
		t.Errorf("decode 错误计数 = %d, 期望 1", m.errors["decode"])
	}

	if err := obs.observe(protocol.S2C, feed(t, chatPacket(`"x"`))); err != nil {
		t.Fatalf("observe() = %v", err)
	}
	if chats != 0 {
		t.Errorf("blind 之后仍收到 %d 条聊天", chats)
	}
}

func TestObserverSubscriberFailure(t *testing.T) {
	boom := errors.New("boom")
	obs := newObserver(event.Funcs{PlayerInfo: func(event.PlayerInfo) error { return boom }}, metrics.Noop{})

	frames := feed(t,
		protocol.CreateHandshakePacket(protocol.CurrentProtocolVersion, "localhost", 25565, protocol.NextStateLogin),
	)
	if err := obs.observe(protocol.C2S, frames); err != nil {
		t.Fatalf("observe() = %v", err)
	}
	err := obs.observe(protocol.S2C, feed(t, protocol.CreateLoginSuccessPacket(uuid.Nil, "Steve")))
	if !errors.Is(err, event.ErrSubscriberFailure) || !errors.Is(err, boom) {
		t.Errorf("observe() = %v, 期望订阅者失败", err)
	}
}

// TestObserverDisconnectContinues 服务器断开只记录日志
func TestObserverDisconnectContinues(t *testing.T) {
	obs := newObserver(event.NopSubscriber{}, metrics.Noop{})
	hs := protocol.CreateHandshakePacket(protocol.CurrentProtocolVersion, "localhost", 25565, protocol.NextStateLogin)
	if err := obs.observe(protocol.C2S, feed(t, hs)); err != nil {
		t.Fatalf("observe() = %v", err)
	}

	payload := append(protocol.AppendVarInt(nil, 4), `"no"`...)
	kick := &protocol.Packet{ID: protocol.S2CLoginDisconnect, Payload: payload}
	if err := obs.observe(protocol.S2C, feed(t, kick)); err != nil {
		t.Errorf("observe() = %v, 期望 nil", err)
	}
	if obs.blind {
		t.Error("断开不应使观察停止")
	}
}

func TestObserverFramingFailed(t *testing.T) {
	m := &countingMetrics{}
	obs := newObserver(event.NopSubscriber{}, m)
	obs.framingFailed(protocol.S2C, protocol.ErrFrameTooLarge)
	if !obs.blind || m.errors["framing"] != 1 {
		t.Errorf("blind = %v, framing = %d", obs.blind, m.errors["framing"])
	}
}

// TestLockedSubscriber 并发调用被串行化
func TestLockedSubscriber(t *testing.T) {
	var inside, max int
	var mu sync.Mutex
	enter := func() {
		mu.Lock()
		inside++
		if inside > max {
			max = inside
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		inside--
		mu.Unlock()
	}
	sub := locked(event.Funcs{
		Chat:     func(event.Chat) error { enter(); leave(); return nil },
		Position: func(event.Position) error { enter(); leave(); return nil },
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = sub.OnChat(event.Chat{})
				_ = sub.OnPosition(event.Position{})
			}
		}()
	}
	wg.Wait()
	if max != 1 {
		t.Errorf("最大并发 = %d, 期望 1", max)
	}
}
