package protocol

import (
	"bytes"
	"fmt"
	"io"
)

type Trade struct {
	Input1          *Slot
	Output          *Slot
	Input2          *Slot
	Disabled        bool
	Uses            int32
	MaxUses         int32
	XP              int32
	SpecialPrice    int32
	PriceMultiplier float32
	Demand          int32
}

// TradeList is the clientbound villager offer list.
type TradeList struct {
	WindowID        int32
	Trades          []Trade
	VillagerLevel   int32
	Experience      int32
	RegularVillager bool
	CanRestock      bool
}

func readTrade(r io.Reader) (Trade, error) {
	var t Trade
	var err error
	if t.Input1, err = ReadSlot(r); err != nil {
		return t, err
	}
	if t.Output, err = ReadSlot(r); err != nil {
		return t, err
	}
	hasInput2, err := ReadBool(r)
	if err != nil {
		return t, err
	}
	if hasInput2 {
		if t.Input2, err = ReadSlot(r); err != nil {
			return t, err
		}
	}
	if t.Disabled, err = ReadBool(r); err != nil {
		return t, err
	}
	if t.Uses, err = ReadInt32(r); err != nil {
		return t, err
	}
	if t.MaxUses, err = ReadInt32(r); err != nil {
		return t, err
	}
	if t.XP, err = ReadInt32(r); err != nil {
		return t, err
	}
	if t.SpecialPrice, err = ReadInt32(r); err != nil {
		return t, err
	}
	if t.PriceMultiplier, err = ReadFloat(r); err != nil {
		return t, err
	}
	if t.Demand, err = ReadInt32(r); err != nil {
		return t, err
	}
	return t, nil
}

func ParseTradeList(r io.Reader) (*TradeList, error) {
	var tl TradeList
	var err error
	if tl.WindowID, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	count, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	tl.Trades = make([]Trade, 0, count)
	for i := 0; i < int(count); i++ {
		t, err := readTrade(r)
		if err != nil {
			return nil, err
		}
		tl.Trades = append(tl.Trades, t)
	}
	if tl.VillagerLevel, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	if tl.Experience, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	if tl.RegularVillager, err = ReadBool(r); err != nil {
		return nil, err
	}
	if tl.CanRestock, err = ReadBool(r); err != nil {
		return nil, err
	}
	return &tl, nil
}

func CreateTradeListPacket(tl *TradeList) (*Packet, error) {
	if len(tl.Trades) > 0xFF {
		return nil, fmt.Errorf("%w: %d trades", ErrInvalidPacket, len(tl.Trades))
	}
	buf := new(bytes.Buffer)
	_ = WriteVarInt(buf, tl.WindowID)
	_ = WriteByte(buf, byte(len(tl.Trades)))
	for _, t := range tl.Trades {
		if err := WriteSlot(buf, t.Input1); err != nil {
			return nil, err
		}
		if err := WriteSlot(buf, t.Output); err != nil {
			return nil, err
		}
		_ = WriteBool(buf, t.Input2 != nil)
		if t.Input2 != nil {
			if err := WriteSlot(buf, t.Input2); err != nil {
				return nil, err
			}
		}
		_ = WriteBool(buf, t.Disabled)
		_ = WriteInt32(buf, t.Uses)
		_ = WriteInt32(buf, t.MaxUses)
		_ = WriteInt32(buf, t.XP)
		_ = WriteInt32(buf, t.SpecialPrice)
		_ = WriteFloat(buf, t.PriceMultiplier)
		_ = WriteInt32(buf, t.Demand)
	}
	_ = WriteVarInt(buf, tl.VillagerLevel)
	_ = WriteVarInt(buf, tl.Experience)
	_ = WriteBool(buf, tl.RegularVillager)
	_ = WriteBool(buf, tl.CanRestock)
	return &Packet{
		ID:      S2CTradeList,
		Payload: buf.Bytes(),
	}, nil
}
