package protocol

import (
	"fmt"
	"io"
	"strings"
)

const (
	TagEnd       = 0
	TagByte      = 1
	TagShort     = 2
	TagInt       = 3
	TagLong      = 4
	TagFloat     = 5
	TagDouble    = 6
	TagByteArray = 7
	TagString    = 8
	TagList      = 9
	TagCompound  = 10
	TagIntArray  = 11
	TagLongArray = 12
)

// MaxNBTDepth bounds compound and list nesting while decoding.
const MaxNBTDepth = 512

// NBTNode is one tag of an NBT tree. Value holds, by Type:
// int8, int16, int32, int64, float32, float64, []byte, string,
// *NBTList, Compound, []int32, []int64.
type NBTNode struct {
	Type  byte
	Value any
}

// NBTList is a homogeneous list; ElemType survives even when the list is empty.
type NBTList struct {
	ElemType byte
	Elems    []*NBTNode
}

type NamedTag struct {
	Name string
	Node *NBTNode
}

// Compound keeps wire order so a decoded tree re-encodes byte for byte.
type Compound []NamedTag

func (c Compound) Get(name string) (*NBTNode, bool) {
	for _, t := range c {
		if t.Name == name {
			return t.Node, true
		}
	}
	return nil, false
}

func TagName(t byte) string {
	switch t {
	case TagEnd:
		return "end"
	case TagByte:
		return "byte"
	case TagShort:
		return "short"
	case TagInt:
		return "int"
	case TagLong:
		return "long"
	case TagFloat:
		return "float"
	case TagDouble:
		return "double"
	case TagByteArray:
		return "byte_array"
	case TagString:
		return "string"
	case TagList:
		return "list"
	case TagCompound:
		return "compound"
	case TagIntArray:
		return "int_array"
	case TagLongArray:
		return "long_array"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

func (n *NBTNode) typeErr(want byte) error {
	return fmt.Errorf("%w: expected %s, found %s", ErrInvalidNBTType, TagName(want), TagName(n.Type))
}

func (n *NBTNode) Compound() (Compound, error) {
	if n.Type != TagCompound {
		return nil, n.typeErr(TagCompound)
	}
	return n.Value.(Compound), nil
}

func (n *NBTNode) List() (*NBTList, error) {
	if n.Type != TagList {
		return nil, n.typeErr(TagList)
	}
	return n.Value.(*NBTList), nil
}

func (n *NBTNode) Str() (string, error) {
	if n.Type != TagString {
		return "", n.typeErr(TagString)
	}
	return n.Value.(string), nil
}

// Int widens any integral tag to int64.
func (n *NBTNode) Int() (int64, error) {
	switch v := n.Value.(type) {
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, n.typeErr(TagInt)
}

func (n *NBTNode) String() string {
	var sb strings.Builder
	n.format(&sb, 0)
	return sb.String()
}

func (n *NBTNode) format(sb *strings.Builder, indent int) {
	pad := strings.Repeat(" ", indent)
	switch v := n.Value.(type) {
	case int8:
		fmt.Fprintf(sb, "%db", v)
	case int16:
		fmt.Fprintf(sb, "%ds", v)
	case int32:
		fmt.Fprintf(sb, "%di", v)
	case int64:
		fmt.Fprintf(sb, "%dl", v)
	case float32:
		fmt.Fprintf(sb, "%gf", v)
	case float64:
		fmt.Fprintf(sb, "%gd", v)
	case []byte:
		fmt.Fprintf(sb, "%d bytes", len(v))
	case string:
		fmt.Fprintf(sb, "'%s'", v)
	case []int32:
		fmt.Fprintf(sb, "%d ints", len(v))
	case []int64:
		fmt.Fprintf(sb, "%d longs", len(v))
	case *NBTList:
		if len(v.Elems) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for _, e := range v.Elems {
			sb.WriteString(pad + "    ")
			e.format(sb, indent+4)
			sb.WriteByte('\n')
		}
		sb.WriteString(pad + "]")
	case Compound:
		entries := "entries"
		if len(v) == 1 {
			entries = "entry"
		}
		fmt.Fprintf(sb, "%d %s {", len(v), entries)
		for _, t := range v {
			fmt.Fprintf(sb, "\n%s    '%s' -> ", pad, t.Name)
			t.Node.format(sb, indent+4)
		}
		sb.WriteString("\n" + pad + "}")
	default:
		sb.WriteString("Unknown")
	}
}

// ReadNBT reads a named root tag, the form used inside 1.18 item slots.
func ReadNBT(r io.Reader) (string, *NBTNode, error) {
	typeByte, err := ReadByte(r)
	if err != nil {
		return "", nil, err
	}
	return readNamedRoot(r, typeByte)
}

// ReadOptionalNBT returns a nil node when the stream holds a lone TagEnd.
func ReadOptionalNBT(r io.Reader) (string, *NBTNode, error) {
	typeByte, err := ReadByte(r)
	if err != nil {
		return "", nil, err
	}
	if typeByte == TagEnd {
		return "", nil, nil
	}
	return readNamedRoot(r, typeByte)
}

func readNamedRoot(r io.Reader, typeByte byte) (string, *NBTNode, error) {
	if typeByte != TagCompound {
		return "", nil, fmt.Errorf("%w: root must be a compound, found %s", ErrInvalidNBTType, TagName(typeByte))
	}
	name, err := NBTReadString(r)
	if err != nil {
		return "", nil, err
	}
	node, err := readPayload(r, typeByte, 0)
	if err != nil {
		return "", nil, err
	}
	return name, node, nil
}

// ReadAnonymousNBT reads a root tag without a name (network NBT).
func ReadAnonymousNBT(r io.Reader) (*NBTNode, error) {
	typeByte, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	if typeByte == TagEnd {
		return &NBTNode{Type: TagEnd}, nil
	}
	return readPayload(r, typeByte, 0)
}

func readPayload(r io.Reader, typeByte byte, depth int) (*NBTNode, error) {
	switch typeByte {
	case TagByte:
		b, err := ReadInt8(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagByte, Value: b}, nil
	case TagShort:
		s, err := ReadInt16(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagShort, Value: s}, nil
	case TagInt:
		i, err := ReadInt32(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagInt, Value: i}, nil
	case TagLong:
		l, err := ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagLong, Value: l}, nil
	case TagFloat:
		f, err := ReadFloat(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagFloat, Value: f}, nil
	case TagDouble:
		d, err := ReadDouble(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagDouble, Value: d}, nil
	case TagByteArray:
		arr, err := NBTReadByteArray(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagByteArray, Value: arr}, nil
	case TagString:
		s, err := NBTReadString(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagString, Value: s}, nil
	case TagList:
		list, err := nbtReadList(r, depth+1)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagList, Value: list}, nil
	case TagCompound:
		compound, err := nbtReadCompound(r, depth+1)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagCompound, Value: compound}, nil
	case TagIntArray:
		arr, err := NBTReadIntArray(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagIntArray, Value: arr}, nil
	case TagLongArray:
		arr, err := NBTReadLongArray(r)
		if err != nil {
			return nil, err
		}
		return &NBTNode{Type: TagLongArray, Value: arr}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, typeByte)
	}
}

func nbtLength(r io.Reader) (int32, error) {
	length, err := ReadInt32(r)
	if err != nil {
		return 0, err
	}
	if length < 0 {
		return 0, fmt.Errorf("%w: negative NBT length %d", ErrInvalidPacket, length)
	}
	return length, nil
}

func NBTReadString(r io.Reader) (string, error) {
	length, err := ReadUnsignedShort(r)
	if err != nil {
		return "", err
	}
	strBytes := make([]byte, length)
	if err := readFull(r, strBytes); err != nil {
		return "", err
	}
	return string(strBytes), nil
}

func NBTReadByteArray(r io.Reader) ([]byte, error) {
	length, err := nbtLength(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if err := readFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func NBTReadIntArray(r io.Reader) ([]int32, error) {
	length, err := nbtLength(r)
	if err != nil {
		return nil, err
	}
	data := make([]int32, 0, min(length, 1024))
	for i := int32(0); i < length; i++ {
		val, err := ReadInt32(r)
		if err != nil {
			return nil, err
		}
		data = append(data, val)
	}
	return data, nil
}

func NBTReadLongArray(r io.Reader) ([]int64, error) {
	length, err := nbtLength(r)
	if err != nil {
		return nil, err
	}
	data := make([]int64, 0, min(length, 1024))
	for i := int32(0); i < length; i++ {
		val, err := ReadInt64(r)
		if err != nil {
			return nil, err
		}
		data = append(data, val)
	}
	return data, nil
}

func nbtReadList(r io.Reader, depth int) (*NBTList, error) {
	if depth > MaxNBTDepth {
		return nil, ErrNestingTooDeep
	}
	elemType, err := ReadByte(r)
	if err != nil {
		return nil, err
	}
	length, err := nbtLength(r)
	if err != nil {
		return nil, err
	}
	if elemType == TagEnd && length > 0 {
		return nil, fmt.Errorf("%w: list of end tags", ErrInvalidNBTType)
	}
	list := &NBTList{ElemType: elemType, Elems: make([]*NBTNode, 0, min(length, 1024))}
	for i := int32(0); i < length; i++ {
		elem, err := readPayload(r, elemType, depth)
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)
	}
	return list, nil
}

func nbtReadCompound(r io.Reader, depth int) (Compound, error) {
	if depth > MaxNBTDepth {
		return nil, ErrNestingTooDeep
	}
	compound := Compound{}
	for {
		typeByte, err := ReadByte(r)
		if err != nil {
			return nil, err
		}
		if typeByte == TagEnd {
			return compound, nil
		}
		name, err := NBTReadString(r)
		if err != nil {
			return nil, err
		}
		node, err := readPayload(r, typeByte, depth)
		if err != nil {
			return nil, err
		}
		compound = append(compound, NamedTag{Name: name, Node: node})
	}
}

// SkipNBT consumes an optional named root without building the tree.
// It reports whether a tag was present.
func SkipNBT(r io.Reader) (bool, error) {
	typeByte, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	if typeByte == TagEnd {
		return false, nil
	}
	if typeByte != TagCompound {
		return false, fmt.Errorf("%w: root must be a compound, found %s", ErrInvalidNBTType, TagName(typeByte))
	}
	if _, err := NBTReadString(r); err != nil {
		return false, err
	}
	return true, skipPayload(r, typeByte, 0)
}

func skipN(r io.Reader, n int64) error {
	copied, err := io.CopyN(io.Discard, r, n)
	if err != nil || copied != n {
		return ErrUnexpectedEOF
	}
	return nil
}

func skipPayload(r io.Reader, typeByte byte, depth int) error {
	switch typeByte {
	case TagByte:
		return skipN(r, 1)
	case TagShort:
		return skipN(r, 2)
	case TagInt, TagFloat:
		return skipN(r, 4)
	case TagLong, TagDouble:
		return skipN(r, 8)
	case TagByteArray:
		length, err := nbtLength(r)
		if err != nil {
			return err
		}
		return skipN(r, int64(length))
	case TagString:
		length, err := ReadUnsignedShort(r)
		if err != nil {
			return err
		}
		return skipN(r, int64(length))
	case TagIntArray:
		length, err := nbtLength(r)
		if err != nil {
			return err
		}
		return skipN(r, int64(length)*4)
	case TagLongArray:
		length, err := nbtLength(r)
		if err != nil {
			return err
		}
		return skipN(r, int64(length)*8)
	case TagList:
		if depth+1 > MaxNBTDepth {
			return ErrNestingTooDeep
		}
		elemType, err := ReadByte(r)
		if err != nil {
			return err
		}
		length, err := nbtLength(r)
		if err != nil {
			return err
		}
		for i := int32(0); i < length; i++ {
			if err := skipPayload(r, elemType, depth+1); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		if depth+1 > MaxNBTDepth {
			return ErrNestingTooDeep
		}
		for {
			t, err := ReadByte(r)
			if err != nil {
				return err
			}
			if t == TagEnd {
				return nil
			}
			length, err := ReadUnsignedShort(r)
			if err != nil {
				return err
			}
			if err := skipN(r, int64(length)); err != nil {
				return err
			}
			if err := skipPayload(r, t, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTag, typeByte)
	}
}

// WriteNBT writes a named root tag.
func WriteNBT(w io.Writer, name string, node *NBTNode) error {
	if err := WriteByte(w, node.Type); err != nil {
		return err
	}
	if err := nbtWriteString(w, name); err != nil {
		return err
	}
	return writePayload(w, node)
}

func WriteAnonymousNBT(w io.Writer, node *NBTNode) error {
	if err := WriteByte(w, node.Type); err != nil {
		return err
	}
	if node.Type == TagEnd {
		return nil
	}
	return writePayload(w, node)
}

func nbtWriteString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	if err := WriteUnsignedShort(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writePayload(w io.Writer, node *NBTNode) error {
	switch v := node.Value.(type) {
	case int8:
		return WriteByte(w, byte(v))
	case int16:
		return WriteInt16(w, v)
	case int32:
		return WriteInt32(w, v)
	case int64:
		return WriteInt64(w, v)
	case float32:
		return WriteFloat(w, v)
	case float64:
		return WriteDouble(w, v)
	case []byte:
		if err := WriteInt32(w, int32(len(v))); err != nil {
			return err
		}
		_, err := w.Write(v)
		return err
	case string:
		return nbtWriteString(w, v)
	case []int32:
		if err := WriteInt32(w, int32(len(v))); err != nil {
			return err
		}
		for _, x := range v {
			if err := WriteInt32(w, x); err != nil {
				return err
			}
		}
		return nil
	case []int64:
		if err := WriteInt32(w, int32(len(v))); err != nil {
			return err
		}
		for _, x := range v {
			if err := WriteInt64(w, x); err != nil {
				return err
			}
		}
		return nil
	case *NBTList:
		if err := WriteByte(w, v.ElemType); err != nil {
			return err
		}
		if err := WriteInt32(w, int32(len(v.Elems))); err != nil {
			return err
		}
		for _, e := range v.Elems {
			if e.Type != v.ElemType {
				return fmt.Errorf("%w: list of %s holds %s", ErrInvalidNBTType, TagName(v.ElemType), TagName(e.Type))
			}
			if err := writePayload(w, e); err != nil {
				return err
			}
		}
		return nil
	case Compound:
		for _, t := range v {
			if err := WriteByte(w, t.Node.Type); err != nil {
				return err
			}
			if err := nbtWriteString(w, t.Name); err != nil {
				return err
			}
			if err := writePayload(w, t.Node); err != nil {
				return err
			}
		}
		return WriteByte(w, TagEnd)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidNBTType, node.Value)
	}
}
