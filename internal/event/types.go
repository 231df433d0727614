package event

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Versifine/dune/internal/data"
	"github.com/Versifine/dune/internal/protocol"
)

// Chat is a clientbound chat line. Text is the flattened component; Raw is
// the JSON as received.
type Chat struct {
	Raw      string
	Text     string
	Position int8
	Sender   uuid.UUID
}

// PlayerInfo identifies the logged-in player.
type PlayerInfo struct {
	Name string
	UUID uuid.UUID
}

// Position is either a server teleport (Teleport set) or a movement the
// client reported. Yaw and Pitch are zero when the packet carried no look.
type Position struct {
	X        float64
	Y        float64
	Z        float64
	Yaw      float32
	Pitch    float32
	HasLook  bool
	Teleport bool
}

// Interact is a serverbound use-entity action. Target is relative to the
// entity and only set for InteractAt.
type Interact struct {
	EntityID  int32
	Kind      protocol.UseEntityKind
	HasTarget bool
	TargetX   float32
	TargetY   float32
	TargetZ   float32
	Hand      int32
	Sneaking  bool
}

type EnchantmentLevel struct {
	Enchantment data.Enchantment
	Level       int16
}

func (e EnchantmentLevel) String() string {
	if e.Level == 0 {
		return e.Enchantment.String()
	}
	return e.Enchantment.String() + " " + data.Roman(int(e.Level))
}

// Item is a decoded slot. Enchantments merges the Enchantments and
// StoredEnchantments lists of the item tag.
type Item struct {
	ID           int32
	Count        int8
	Enchantments []EnchantmentLevel
	NBT          *protocol.NBTNode
}

func (it *Item) String() string {
	if it == nil {
		return "-"
	}
	s := fmt.Sprintf("%2dx item#%d", it.Count, it.ID)
	if len(it.Enchantments) == 0 {
		return s
	}
	parts := make([]string, len(it.Enchantments))
	for i, e := range it.Enchantments {
		parts[i] = e.String()
	}
	return s + " (" + strings.Join(parts, ", ") + ")"
}

type Offer struct {
	Input1          *Item
	Input2          *Item
	Output          *Item
	Disabled        bool
	Uses            int32
	MaxUses         int32
	XP              int32
	SpecialPrice    int32
	PriceMultiplier float32
	Demand          int32
}

// Trades is the offer list of a villager window.
type Trades struct {
	WindowID        int32
	Offers          []Offer
	VillagerLevel   int32
	Experience      int32
	RegularVillager bool
	CanRestock      bool
}
