package event

import (
	"fmt"

	"github.com/Versifine/dune/internal/protocol"
)

func (d *Dispatcher) trades(tl *protocol.TradeList) (Trades, error) {
	t := Trades{
		WindowID:        tl.WindowID,
		Offers:          make([]Offer, 0, len(tl.Trades)),
		VillagerLevel:   tl.VillagerLevel,
		Experience:      tl.Experience,
		RegularVillager: tl.RegularVillager,
		CanRestock:      tl.CanRestock,
	}
	for i, tr := range tl.Trades {
		o := Offer{
			Disabled:        tr.Disabled,
			Uses:            tr.Uses,
			MaxUses:         tr.MaxUses,
			XP:              tr.XP,
			SpecialPrice:    tr.SpecialPrice,
			PriceMultiplier: tr.PriceMultiplier,
			Demand:          tr.Demand,
		}
		var err error
		if o.Input1, err = d.item(tr.Input1); err != nil {
			return t, fmt.Errorf("trade %d input 1: %w", i, err)
		}
		if o.Input2, err = d.item(tr.Input2); err != nil {
			return t, fmt.Errorf("trade %d input 2: %w", i, err)
		}
		if o.Output, err = d.item(tr.Output); err != nil {
			return t, fmt.Errorf("trade %d output: %w", i, err)
		}
		t.Offers = append(t.Offers, o)
	}
	return t, nil
}

// item resolves the enchantment lists of a slot's tag. Other tag entries
// are kept on Item.NBT untouched.
func (d *Dispatcher) item(s *protocol.Slot) (*Item, error) {
	if s == nil {
		return nil, nil
	}
	it := &Item{ID: s.ItemID, Count: s.Count, NBT: s.NBT}
	if s.NBT == nil {
		return it, nil
	}
	root, err := s.NBT.Compound()
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"Enchantments", "StoredEnchantments"} {
		node, ok := root.Get(key)
		if !ok {
			continue
		}
		levels, err := d.enchantmentList(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		it.Enchantments = append(it.Enchantments, levels...)
	}
	return it, nil
}

func (d *Dispatcher) enchantmentList(node *protocol.NBTNode) ([]EnchantmentLevel, error) {
	list, err := node.List()
	if err != nil {
		return nil, err
	}
	levels := make([]EnchantmentLevel, 0, len(list.Elems))
	for _, elem := range list.Elems {
		entry, err := elem.Compound()
		if err != nil {
			return nil, err
		}
		idNode, ok := entry.Get("id")
		if !ok {
			return nil, fmt.Errorf("%w: enchantment without id", protocol.ErrInvalidNBTType)
		}
		id, err := idNode.Str()
		if err != nil {
			return nil, err
		}
		lvlNode, ok := entry.Get("lvl")
		if !ok {
			return nil, fmt.Errorf("%w: enchantment without lvl", protocol.ErrInvalidNBTType)
		}
		lvl, err := lvlNode.Int()
		if err != nil {
			return nil, err
		}
		e, err := d.enchantments.Lookup(id)
		if err != nil {
			return nil, err
		}
		levels = append(levels, EnchantmentLevel{Enchantment: e, Level: int16(lvl)})
	}
	return levels, nil
}
