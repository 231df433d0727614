package event

import (
	"sync"
)

// Bus fans each event out to its subscribers synchronously, in subscription
// order. The first failing subscriber stops delivery of that event.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewBus(subs ...Subscriber) *Bus {
	b := &Bus{}
	for _, s := range subs {
		b.Subscribe(s)
	}
	return b
}

func (b *Bus) Subscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, sub)
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *Bus) publish(call func(Subscriber) error) error {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subscribers {
		if err := call(sub); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) OnChat(e Chat) error {
	return b.publish(func(s Subscriber) error { return s.OnChat(e) })
}

func (b *Bus) OnPlayerInfo(e PlayerInfo) error {
	return b.publish(func(s Subscriber) error { return s.OnPlayerInfo(e) })
}

func (b *Bus) OnPosition(e Position) error {
	return b.publish(func(s Subscriber) error { return s.OnPosition(e) })
}

func (b *Bus) OnTrades(e Trades) error {
	return b.publish(func(s Subscriber) error { return s.OnTrades(e) })
}

func (b *Bus) OnInteract(e Interact) error {
	return b.publish(func(s Subscriber) error { return s.OnInteract(e) })
}
