// Package data holds the static game tables the decoder consults.
package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownIdentifier = errors.New("unknown identifier")

const Namespace = "minecraft:"

// Enchantment is the 1.18.2 registry id of an enchantment.
type Enchantment int32

const (
	Protection Enchantment = iota
	FireProtection
	FeatherFalling
	BlastProtection
	ProjectileProtection
	Respiration
	AquaAffinity
	Thorns
	DepthStrider
	FrostWalker
	BindingCurse
	SoulSpeed
	Sharpness
	Smite
	BaneOfArthropods
	Knockback
	FireAspect
	Looting
	Sweeping
	Efficiency
	SilkTouch
	Unbreaking
	Fortune
	Power
	Punch
	Flame
	Infinity
	LuckOfTheSea
	Lure
	Loyalty
	Impaling
	Riptide
	Channeling
	Multishot
	QuickCharge
	Piercing
	Mending
	VanishingCurse

	enchantmentCount
)

// enchantmentNames is indexed by Enchantment.
var enchantmentNames = [enchantmentCount]string{
	"protection",
	"fire_protection",
	"feather_falling",
	"blast_protection",
	"projectile_protection",
	"respiration",
	"aqua_affinity",
	"thorns",
	"depth_strider",
	"frost_walker",
	"binding_curse",
	"soul_speed",
	"sharpness",
	"smite",
	"bane_of_arthropods",
	"knockback",
	"fire_aspect",
	"looting",
	"sweeping",
	"efficiency",
	"silk_touch",
	"unbreaking",
	"fortune",
	"power",
	"punch",
	"flame",
	"infinity",
	"luck_of_the_sea",
	"lure",
	"loyalty",
	"impaling",
	"riptide",
	"channeling",
	"multishot",
	"quick_charge",
	"piercing",
	"mending",
	"vanishing_curse",
}

func (e Enchantment) Valid() bool {
	return e >= 0 && e < enchantmentCount
}

// String returns the identifier without its namespace, e.g. "sharpness".
func (e Enchantment) String() string {
	if !e.Valid() {
		return "Enchantment(" + strconv.Itoa(int(e)) + ")"
	}
	return enchantmentNames[e]
}

// EnchantmentTable maps namespaced identifiers to enchantments. It is built
// once and only read afterwards, so it can be shared freely.
type EnchantmentTable struct {
	byName map[string]Enchantment
}

func NewEnchantmentTable() *EnchantmentTable {
	t := &EnchantmentTable{byName: make(map[string]Enchantment, enchantmentCount)}
	for i, name := range enchantmentNames {
		t.byName[Namespace+name] = Enchantment(i)
	}
	return t
}

// Lookup resolves an identifier such as "minecraft:sharpness". Identifiers
// without the minecraft namespace are rejected.
func (t *EnchantmentTable) Lookup(id string) (Enchantment, error) {
	if !strings.HasPrefix(id, Namespace) {
		return 0, fmt.Errorf("%w: enchantment %q", ErrUnknownIdentifier, id)
	}
	e, ok := t.byName[id]
	if !ok {
		return 0, fmt.Errorf("%w: enchantment %q", ErrUnknownIdentifier, id)
	}
	return e, nil
}

// Name returns the namespaced identifier of e.
func (t *EnchantmentTable) Name(e Enchantment) (string, error) {
	if !e.Valid() {
		return "", fmt.Errorf("%w: enchantment id %d", ErrUnknownIdentifier, int32(e))
	}
	return Namespace + enchantmentNames[e], nil
}

func (t *EnchantmentTable) Len() int {
	return len(t.byName)
}

var romanLevels = [...]string{"", "I", "II", "III", "IV", "V"}

// Roman formats an enchantment level the way the game tooltip does.
// Levels past V fall back to decimal.
func Roman(level int) string {
	if level >= 0 && level < len(romanLevels) {
		return romanLevels[level]
	}
	return strconv.Itoa(level)
}
