package event

import (
	"errors"
	"sync"
	"testing"
)

// TestNewBus 测试创建新的事件总线
func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() 返回 nil")
	}
	if bus.Len() != 0 {
		t.Fatalf("Len() = %d, 期望 0", bus.Len())
	}
	if NewBus(NopSubscriber{}, NopSubscriber{}).Len() != 2 {
		t.Fatal("NewBus(a, b) 应该订阅两个 subscriber")
	}
}

// TestSubscribeAndPublish 测试订阅和发布事件
func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	var received Chat
	bus.Subscribe(Funcs{Chat: func(e Chat) error {
		received = e
		return nil
	}})

	if err := bus.OnChat(Chat{Text: "hello"}); err != nil {
		t.Fatalf("OnChat() 返回错误: %v", err)
	}

	if received.Text != "hello" {
		t.Errorf("handler 收到 %q, 期望 %q", received.Text, "hello")
	}
}

// TestPublishNoSubscribers 测试发布无订阅者的事件不会 panic
func TestPublishNoSubscribers(t *testing.T) {
	bus := NewBus()
	if err := bus.OnTrades(Trades{}); err != nil {
		t.Errorf("无订阅者时不应返回错误: %v", err)
	}
}

// TestSubscribersInOrder 测试订阅者按订阅顺序同步调用
func TestSubscribersInOrder(t *testing.T) {
	bus := NewBus()
	var order []int

	for i := 1; i <= 3; i++ {
		bus.Subscribe(Funcs{Position: func(Position) error {
			order = append(order, i)
			return nil
		}})
	}

	if err := bus.OnPosition(Position{}); err != nil {
		t.Fatalf("OnPosition() 返回错误: %v", err)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("调用顺序 = %v, 期望 [1 2 3]", order)
	}
}

// TestFirstFailureStops 第一个失败的订阅者之后的订阅者不会被调用
func TestFirstFailureStops(t *testing.T) {
	boom := errors.New("boom")
	bus := NewBus()
	var thirdCalled bool

	bus.Subscribe(NopSubscriber{})
	bus.Subscribe(Funcs{Interact: func(Interact) error { return boom }})
	bus.Subscribe(Funcs{Interact: func(Interact) error {
		thirdCalled = true
		return nil
	}})

	err := bus.OnInteract(Interact{})
	if !errors.Is(err, boom) {
		t.Errorf("OnInteract() err = %v, 期望 %v", err, boom)
	}
	if thirdCalled {
		t.Error("第三个订阅者不应该被调用")
	}
}

// TestMultipleEvents 测试不同事件类型互不干扰
func TestMultipleEvents(t *testing.T) {
	bus := NewBus()
	var chatReceived, infoReceived bool

	bus.Subscribe(Funcs{
		Chat: func(Chat) error {
			chatReceived = true
			return nil
		},
		PlayerInfo: func(PlayerInfo) error {
			infoReceived = true
			return nil
		},
	})

	_ = bus.OnChat(Chat{})

	if !chatReceived {
		t.Error("chat handler 应该被调用")
	}
	if infoReceived {
		t.Error("player info handler 不应该被调用")
	}
}

// TestConcurrentSubscribeAndPublish 测试并发订阅和发布的线程安全性
func TestConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0

	bus.Subscribe(Funcs{Chat: func(Chat) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.OnChat(Chat{})
		}()
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(NopSubscriber{})
		}()
	}
	wg.Wait()

	if count != 100 {
		t.Errorf("应该收到 100 次事件, 实际收到 %d 次", count)
	}
}
