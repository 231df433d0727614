package protocol

import "io"

// Slot is an item stack as encoded in 1.18. A nil *Slot is an empty slot.
type Slot struct {
	ItemID int32
	Count  int8
	NBT    *NBTNode
}

func ReadSlot(r io.Reader) (*Slot, error) {
	present, err := ReadBool(r)
	if err != nil || !present {
		return nil, err
	}
	var s Slot
	if s.ItemID, _, err = ReadVarInt(r); err != nil {
		return nil, err
	}
	if s.Count, err = ReadInt8(r); err != nil {
		return nil, err
	}
	if _, s.NBT, err = ReadOptionalNBT(r); err != nil {
		return nil, err
	}
	return &s, nil
}

func WriteSlot(w io.Writer, s *Slot) error {
	if s == nil {
		return WriteBool(w, false)
	}
	if err := WriteBool(w, true); err != nil {
		return err
	}
	if err := WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	if err := WriteByte(w, byte(s.Count)); err != nil {
		return err
	}
	if s.NBT == nil {
		return WriteByte(w, TagEnd)
	}
	return WriteNBT(w, "", s.NBT)
}
