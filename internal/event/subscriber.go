package event

// Subscriber receives decoded events synchronously, in wire order. A
// non-nil error stops processing of the remaining frames and is fatal to
// the connection.
type Subscriber interface {
	OnChat(Chat) error
	OnPlayerInfo(PlayerInfo) error
	OnPosition(Position) error
	OnTrades(Trades) error
	OnInteract(Interact) error
}

// NopSubscriber implements every callback as a no-op. Embed it to
// implement only some of them.
type NopSubscriber struct{}

func (NopSubscriber) OnChat(Chat) error             { return nil }
func (NopSubscriber) OnPlayerInfo(PlayerInfo) error { return nil }
func (NopSubscriber) OnPosition(Position) error     { return nil }
func (NopSubscriber) OnTrades(Trades) error         { return nil }
func (NopSubscriber) OnInteract(Interact) error     { return nil }

// Funcs adapts a set of optional callbacks to Subscriber. Nil fields are no-ops.
type Funcs struct {
	Chat       func(Chat) error
	PlayerInfo func(PlayerInfo) error
	Position   func(Position) error
	Trades     func(Trades) error
	Interact   func(Interact) error
}

func (f Funcs) OnChat(e Chat) error {
	if f.Chat == nil {
		return nil
	}
	return f.Chat(e)
}

func (f Funcs) OnPlayerInfo(e PlayerInfo) error {
	if f.PlayerInfo == nil {
		return nil
	}
	return f.PlayerInfo(e)
}

func (f Funcs) OnPosition(e Position) error {
	if f.Position == nil {
		return nil
	}
	return f.Position(e)
}

func (f Funcs) OnTrades(e Trades) error {
	if f.Trades == nil {
		return nil
	}
	return f.Trades(e)
}

func (f Funcs) OnInteract(e Interact) error {
	if f.Interact == nil {
		return nil
	}
	return f.Interact(e)
}
