package event

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Versifine/dune/internal/protocol"
)

type SourceType int8

const (
	SourceChat SourceType = iota
	SourceSystem
	SourceHotbar
)

func (st SourceType) String() string {
	switch st {
	case SourceChat:
		return "Chat"
	case SourceSystem:
		return "System"
	case SourceHotbar:
		return "Hotbar"
	default:
		return "Unknown"
	}
}

func (c Chat) Source() SourceType {
	return SourceType(c.Position)
}

// Vec3 is a world position.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

var _ Subscriber = (*Reporter)(nil)

// Reporter is a Subscriber that logs what the player sees and does. It
// remembers the player, the last known position and where the last
// interact-at landed, so trades can be reported with the location of the
// villager that offered them. The accessors may be called from any
// goroutine.
type Reporter struct {
	log *slog.Logger

	mu          sync.Mutex
	player      PlayerInfo
	position    Vec3
	lastTarget  Vec3
	hasTarget   bool
	hasPosition bool
}

// NewReporter logs to l, or to slog.Default() when l is nil.
func NewReporter(l *slog.Logger) *Reporter {
	if l == nil {
		l = slog.Default()
	}
	return &Reporter{log: l}
}

func (r *Reporter) Player() PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.player
}

func (r *Reporter) Position() (Vec3, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position, r.hasPosition
}

// LastTarget is the world position of the last interact-at.
func (r *Reporter) LastTarget() (Vec3, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastTarget, r.hasTarget
}

func (r *Reporter) OnChat(c Chat) error {
	r.log.Info("Chat event", "message", c.Text, "source", c.Source().String(), "sender", c.Sender.String())
	return nil
}

func (r *Reporter) OnPlayerInfo(p PlayerInfo) error {
	r.mu.Lock()
	r.player = p
	r.mu.Unlock()
	r.log.Info("Player", "username", p.Name, "uuid", p.UUID.String())
	return nil
}

func (r *Reporter) OnPosition(p Position) error {
	pos := Vec3{X: p.X, Y: p.Y, Z: p.Z}
	r.mu.Lock()
	r.position = pos
	r.hasPosition = true
	r.mu.Unlock()
	r.log.Debug("Position", "pos", pos.String(), "teleport", p.Teleport)
	return nil
}

func (r *Reporter) OnInteract(i Interact) error {
	if i.Kind != protocol.UseEntityInteractAt || !i.HasTarget {
		r.log.Debug("Interact", "entity_id", i.EntityID, "kind", i.Kind.String())
		return nil
	}
	r.mu.Lock()
	target := Vec3{
		X: r.position.X + float64(i.TargetX),
		Y: r.position.Y + float64(i.TargetY),
		Z: r.position.Z + float64(i.TargetZ),
	}
	r.lastTarget = target
	r.hasTarget = true
	r.mu.Unlock()
	r.log.Info("Interact", "entity_id", i.EntityID, "kind", i.Kind.String(), "at", target.String())
	return nil
}

func (r *Reporter) OnTrades(t Trades) error {
	at := "unknown"
	if target, ok := r.LastTarget(); ok {
		at = target.String()
	}
	r.log.Info("Trades", "at", at, "window_id", t.WindowID, "level", t.VillagerLevel, "offers", len(t.Offers))
	for i, o := range t.Offers {
		r.log.Info("Trade offer",
			"index", i,
			"in1", o.Input1.String(),
			"in2", o.Input2.String(),
			"out", o.Output.String(),
			"uses", fmt.Sprintf("%d/%d", o.Uses, o.MaxUses),
			"disabled", o.Disabled,
		)
	}
	return nil
}
