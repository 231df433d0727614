package event

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Versifine/dune/internal/data"
	"github.com/Versifine/dune/internal/metrics"
	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/session"
)

// Sender queues a packet for writing. *session.Session satisfies it.
type Sender interface {
	EnqueuePacket(pkt *protocol.Packet) error
}

type DispatcherOption func(*Dispatcher)

// WithSender enables automatic keep-alive and teleport-confirm replies.
// Without a sender the dispatcher only observes.
func WithSender(s Sender) DispatcherOption {
	return func(d *Dispatcher) {
		d.sender = s
	}
}

func WithEnchantments(t *data.EnchantmentTable) DispatcherOption {
	return func(d *Dispatcher) {
		d.enchantments = t
	}
}

func WithMetrics(m metrics.Collector) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = metrics.OrNoop(m)
	}
}

// Dispatcher turns frames into typed packets and typed packets into
// subscriber calls, tracking the connection state on the way. It is not
// safe for concurrent use.
type Dispatcher struct {
	state        *protocol.ConnState
	sub          Subscriber
	sender       Sender
	enchantments *data.EnchantmentTable
	metrics      metrics.Collector
}

func NewDispatcher(sub Subscriber, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		state:   protocol.NewConnState(),
		sub:     sub,
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.enchantments == nil {
		d.enchantments = data.NewEnchantmentTable()
	}
	return d
}

func (d *Dispatcher) State() protocol.State {
	return d.state.Get()
}

// HandleFrames dispatches clientbound frames in order and stops at the
// first error, so later frames are never delivered after a failure.
func (d *Dispatcher) HandleFrames(frames []session.Frame) error {
	for _, f := range frames {
		if err := d.HandleFrame(f); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) HandleFrame(f session.Frame) error {
	pkt, err := protocol.ParsePacket(f.Payload)
	if err == nil {
		err = d.HandlePacket(protocol.S2C, pkt)
	}
	if err != nil && !errors.Is(err, ErrSubscriberFailure) && !errors.Is(err, ErrDisconnected) {
		d.metrics.IncErrors("decode")
	}
	return err
}

// Send records the effect of a serverbound packet on the connection state,
// then queues it. Events for the packet are dispatched like any other.
func (d *Dispatcher) Send(pkt *protocol.Packet) error {
	if d.sender == nil {
		return fmt.Errorf("dispatcher has no sender")
	}
	if err := d.HandlePacket(protocol.C2S, pkt); err != nil {
		return err
	}
	return d.sender.EnqueuePacket(pkt)
}

func (d *Dispatcher) reply(pkt *protocol.Packet) error {
	if d.sender == nil {
		return nil
	}
	return d.sender.EnqueuePacket(pkt)
}

// HandlePacket applies one packet travelling in dir. Packets the current
// state does not know about are ignored.
func (d *Dispatcher) HandlePacket(dir protocol.Direction, pkt *protocol.Packet) error {
	switch d.state.Get() {
	case protocol.Handshaking:
		if dir == protocol.C2S && pkt.ID == protocol.C2SHandshake {
			return d.onHandshake(pkt)
		}
	case protocol.Login:
		if dir == protocol.S2C {
			return d.handleLoginS2C(pkt)
		}
		if pkt.ID == protocol.C2SLoginStart {
			ls, err := protocol.ParseLoginStart(pkt.Reader())
			if err != nil {
				return err
			}
			slog.Debug("Login start", "username", ls.Username)
		}
	case protocol.Play:
		if dir == protocol.S2C {
			return d.handlePlayS2C(pkt)
		}
		return d.handlePlayC2S(pkt)
	}
	return nil
}

func (d *Dispatcher) onHandshake(pkt *protocol.Packet) error {
	hs, err := protocol.ParseHandshake(pkt.Reader())
	if err != nil {
		return err
	}
	switch hs.NextState {
	case protocol.NextStateStatus:
		d.state.Set(protocol.Status)
	case protocol.NextStateLogin:
		d.state.Set(protocol.Login)
	default:
		return fmt.Errorf("%w: handshake next state %d", protocol.ErrInvalidPacket, hs.NextState)
	}
	slog.Debug("Handshake", "protocol_version", hs.ProtocolVersion, "server_address", hs.ServerAddress, "server_port", hs.ServerPort, "state", d.state.Get())
	return nil
}

func (d *Dispatcher) handleLoginS2C(pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.S2CLoginDisconnect:
		return d.disconnect(pkt)
	case protocol.S2CSetCompression:
		sc, err := protocol.ParseSetCompression(pkt.Reader())
		if err != nil {
			return err
		}
		if sc.Threshold >= 0 {
			return fmt.Errorf("%w: threshold %d", ErrCompressionUnsupported, sc.Threshold)
		}
	case protocol.S2CLoginSuccess:
		ls, err := protocol.ParseLoginSuccess(pkt.Reader())
		if err != nil {
			return err
		}
		d.state.Set(protocol.Play)
		slog.Info("Login successful", "username", ls.Username, "uuid", ls.UUID.String())
		return d.deliver("OnPlayerInfo", "player_info", d.sub.OnPlayerInfo(PlayerInfo{Name: ls.Username, UUID: ls.UUID}))
	}
	return nil
}

func (d *Dispatcher) handlePlayS2C(pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.S2CPlayDisconnect:
		return d.disconnect(pkt)
	case protocol.S2CPlayKeepAlive:
		ka, err := protocol.ParseKeepAlive(pkt.Reader())
		if err != nil {
			return err
		}
		return d.reply(ka.Reply())
	case protocol.S2CChatMessage:
		msg, err := protocol.ParseChatMessage(pkt.Reader())
		if err != nil {
			return err
		}
		text, err := protocol.PlainText(msg.JSON)
		if err != nil {
			slog.Warn("Failed to flatten chat component", "error", err)
			text = msg.JSON
		}
		return d.deliver("OnChat", "chat", d.sub.OnChat(Chat{
			Raw:      msg.JSON,
			Text:     text,
			Position: msg.Position,
			Sender:   msg.Sender,
		}))
	case protocol.S2CPlayerPosition:
		pos, err := protocol.ParsePlayerPosition(pkt.Reader())
		if err != nil {
			return err
		}
		if err := d.reply(protocol.CreateTeleportConfirmPacket(pos.TeleportID)); err != nil {
			return err
		}
		return d.deliver("OnPosition", "position", d.sub.OnPosition(Position{
			X:        pos.X,
			Y:        pos.Y,
			Z:        pos.Z,
			Yaw:      pos.Yaw,
			Pitch:    pos.Pitch,
			HasLook:  true,
			Teleport: true,
		}))
	case protocol.S2CTradeList:
		tl, err := protocol.ParseTradeList(pkt.Reader())
		if err != nil {
			return err
		}
		trades, err := d.trades(tl)
		if err != nil {
			return err
		}
		return d.deliver("OnTrades", "trades", d.sub.OnTrades(trades))
	}
	return nil
}

func (d *Dispatcher) handlePlayC2S(pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.C2SPosition, protocol.C2SPositionLook:
		m, err := protocol.ParseMovePlayer(pkt.Reader(), pkt.ID == protocol.C2SPositionLook)
		if err != nil {
			return err
		}
		return d.deliver("OnPosition", "position", d.sub.OnPosition(Position{
			X:       m.X,
			Y:       m.Y,
			Z:       m.Z,
			Yaw:     m.Yaw,
			Pitch:   m.Pitch,
			HasLook: m.HasLook,
		}))
	case protocol.C2SUseEntity:
		u, err := protocol.ParseUseEntity(pkt.Reader())
		if err != nil {
			return err
		}
		return d.deliver("OnInteract", "interact", d.sub.OnInteract(Interact{
			EntityID:  u.EntityID,
			Kind:      u.Kind,
			HasTarget: u.Kind == protocol.UseEntityInteractAt,
			TargetX:   u.TargetX,
			TargetY:   u.TargetY,
			TargetZ:   u.TargetZ,
			Hand:      u.Hand,
			Sneaking:  u.Sneaking,
		}))
	}
	return nil
}

func (d *Dispatcher) disconnect(pkt *protocol.Packet) error {
	dc, err := protocol.ParseDisconnect(pkt.Reader())
	if err != nil {
		return err
	}
	reason, err := protocol.PlainText(dc.Reason)
	if err != nil {
		reason = dc.Reason
	}
	return &DisconnectError{Reason: reason}
}

func (d *Dispatcher) deliver(callback, kind string, err error) error {
	if err != nil {
		d.metrics.IncErrors("subscriber")
		return &SubscriberError{Callback: callback, Err: err}
	}
	d.metrics.IncEvents(kind)
	return nil
}
