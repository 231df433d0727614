package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleCompound() *NBTNode {
	ench := &NBTNode{Type: TagCompound, Value: Compound{
		{Name: "id", Node: &NBTNode{Type: TagString, Value: "minecraft:mending"}},
		{Name: "lvl", Node: &NBTNode{Type: TagShort, Value: int16(1)}},
	}}
	return &NBTNode{Type: TagCompound, Value: Compound{
		{Name: "b", Node: &NBTNode{Type: TagByte, Value: int8(-3)}},
		{Name: "i", Node: &NBTNode{Type: TagInt, Value: int32(70000)}},
		{Name: "l", Node: &NBTNode{Type: TagLong, Value: int64(1 << 40)}},
		{Name: "f", Node: &NBTNode{Type: TagFloat, Value: float32(1.5)}},
		{Name: "d", Node: &NBTNode{Type: TagDouble, Value: 2.25}},
		{Name: "ba", Node: &NBTNode{Type: TagByteArray, Value: []byte{1, 2, 3}}},
		{Name: "ia", Node: &NBTNode{Type: TagIntArray, Value: []int32{4, 5}}},
		{Name: "la", Node: &NBTNode{Type: TagLongArray, Value: []int64{6}}},
		{Name: "StoredEnchantments", Node: &NBTNode{Type: TagList, Value: &NBTList{
			ElemType: TagCompound,
			Elems:    []*NBTNode{ench},
		}}},
		{Name: "empty", Node: &NBTNode{Type: TagList, Value: &NBTList{ElemType: TagEnd}}},
	}}
}

// nested 构造 depth 层嵌套的 compound 负载 (不含根类型与名字)
func nested(depth int) []byte {
	buf := &bytes.Buffer{}
	for i := 0; i < depth-1; i++ {
		buf.Write([]byte{TagCompound, 0x00, 0x01, 'c'})
	}
	for i := 0; i < depth; i++ {
		buf.WriteByte(TagEnd)
	}
	return buf.Bytes()
}

// TestNBTRoundTrip 写入后再读取应得到逐字节相同的编码
func TestNBTRoundTrip(t *testing.T) {
	root := sampleCompound()

	buf := &bytes.Buffer{}
	if err := WriteNBT(buf, "tag", root); err != nil {
		t.Fatalf("WriteNBT() 错误: %v", err)
	}
	encoded := append([]byte(nil), buf.Bytes()...)

	name, node, err := ReadNBT(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("ReadNBT() 错误: %v", err)
	}
	if name != "tag" {
		t.Errorf("name = %q, 期望 %q", name, "tag")
	}

	c, err := node.Compound()
	if err != nil {
		t.Fatalf("Compound() 错误: %v", err)
	}
	if len(c) != 10 {
		t.Fatalf("条目数 = %d, 期望 10", len(c))
	}
	if n, ok := c.Get("i"); !ok || n.Value.(int32) != 70000 {
		t.Errorf("i = %v, 期望 70000", n)
	}
	list, ok := c.Get("StoredEnchantments")
	if !ok {
		t.Fatal("缺少 StoredEnchantments")
	}
	l, err := list.List()
	if err != nil || len(l.Elems) != 1 {
		t.Fatalf("List() = %v, %v", l, err)
	}
	inner, _ := l.Elems[0].Compound()
	id, _ := inner.Get("id")
	if s, _ := id.Str(); s != "minecraft:mending" {
		t.Errorf("id = %q", s)
	}
	lvl, _ := inner.Get("lvl")
	if v, _ := lvl.Int(); v != 1 {
		t.Errorf("lvl = %d, 期望 1", v)
	}

	again := &bytes.Buffer{}
	if err := WriteNBT(again, name, node); err != nil {
		t.Fatalf("二次 WriteNBT() 错误: %v", err)
	}
	if !bytes.Equal(again.Bytes(), encoded) {
		t.Error("二次编码与原编码不一致")
	}
}

// TestNBTDepthLimit 超过嵌套上限应返回 ErrNestingTooDeep
func TestNBTDepthLimit(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantErr error
	}{
		{"浅层嵌套", 10, nil},
		{"恰好等于上限", MaxNBTDepth, nil},
		{"超过上限", MaxNBTDepth + 1, ErrNestingTooDeep},
		{"远超上限", 4096, ErrNestingTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]byte{TagCompound, 0x00, 0x00}, nested(tt.depth)...)

			_, _, err := ReadNBT(bytes.NewReader(input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadNBT() err = %v, 期望 %v", err, tt.wantErr)
			}

			_, err = SkipNBT(bytes.NewReader(input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SkipNBT() err = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}
}

// TestNBTDeepList 列表嵌套同样受上限约束
func TestNBTDeepList(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte{TagCompound, 0x00, 0x00})
	buf.Write([]byte{TagList, 0x00, 0x01, 'l'})
	for i := 0; i < MaxNBTDepth+10; i++ {
		buf.Write([]byte{TagList, 0, 0, 0, 1})
	}

	_, _, err := ReadNBT(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("err = %v, 期望 ErrNestingTooDeep", err)
	}
}

func TestReadNBTErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"空输入", nil, ErrUnexpectedEOF},
		{"根不是 compound", []byte{TagInt, 0, 0, 0, 0, 0, 1}, ErrInvalidNBTType},
		{"未知标签", []byte{TagCompound, 0, 0, 13, 0, 0}, ErrUnknownTag},
		{"缺少结束标签", []byte{TagCompound, 0, 0, TagByte, 0, 1, 'x', 5}, ErrUnexpectedEOF},
		{"负数组长度", []byte{TagCompound, 0, 0, TagByteArray, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}, ErrInvalidPacket},
		{"名字被截断", []byte{TagCompound, 0, 5, 'a'}, ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadNBT(bytes.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadNBT() err = %v, 期望 %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadOptionalNBT(t *testing.T) {
	t.Run("TAG_End 表示不存在", func(t *testing.T) {
		r := bytes.NewReader([]byte{TagEnd, 0x42})
		_, node, err := ReadOptionalNBT(r)
		if err != nil {
			t.Fatalf("ReadOptionalNBT() 错误: %v", err)
		}
		if node != nil {
			t.Errorf("node = %v, 期望 nil", node)
		}
		if r.Len() != 1 {
			t.Errorf("剩余字节 = %d, 期望 1", r.Len())
		}
	})

	t.Run("存在", func(t *testing.T) {
		r := bytes.NewReader([]byte{TagCompound, 0, 0, TagByte, 0, 1, 'x', 5, TagEnd})
		_, node, err := ReadOptionalNBT(r)
		if err != nil {
			t.Fatalf("ReadOptionalNBT() 错误: %v", err)
		}
		c, _ := node.Compound()
		x, ok := c.Get("x")
		if !ok || x.Value.(int8) != 5 {
			t.Errorf("x = %v, 期望 5", x)
		}
	})
}

// TestSkipNBT 跳过后读指针应停在标签之后
func TestSkipNBT(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteNBT(buf, "", sampleCompound()); err != nil {
		t.Fatalf("WriteNBT() 错误: %v", err)
	}
	buf.WriteByte(0x99)

	r := bytes.NewReader(buf.Bytes())
	present, err := SkipNBT(r)
	if err != nil {
		t.Fatalf("SkipNBT() 错误: %v", err)
	}
	if !present {
		t.Error("present = false, 期望 true")
	}
	tail, err := ReadByte(r)
	if err != nil || tail != 0x99 {
		t.Errorf("尾字节 = %#x, %v, 期望 0x99", tail, err)
	}

	present, err = SkipNBT(bytes.NewReader([]byte{TagEnd}))
	if err != nil || present {
		t.Errorf("SkipNBT(TAG_End) = %v, %v, 期望 false, nil", present, err)
	}
}

func TestAnonymousNBT(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteAnonymousNBT(buf, sampleCompound()); err != nil {
		t.Fatalf("WriteAnonymousNBT() 错误: %v", err)
	}
	node, err := ReadAnonymousNBT(buf)
	if err != nil {
		t.Fatalf("ReadAnonymousNBT() 错误: %v", err)
	}
	if node.Type != TagCompound {
		t.Errorf("Type = %s, 期望 compound", TagName(node.Type))
	}
}

func TestWriteNBTMixedList(t *testing.T) {
	bad := &NBTNode{Type: TagList, Value: &NBTList{
		ElemType: TagInt,
		Elems:    []*NBTNode{{Type: TagString, Value: "x"}},
	}}
	root := &NBTNode{Type: TagCompound, Value: Compound{{Name: "l", Node: bad}}}

	err := WriteNBT(&bytes.Buffer{}, "", root)
	if !errors.Is(err, ErrInvalidNBTType) {
		t.Errorf("err = %v, 期望 ErrInvalidNBTType", err)
	}
}

func TestNBTNodeAccessors(t *testing.T) {
	n := &NBTNode{Type: TagString, Value: "hi"}
	if _, err := n.Compound(); !errors.Is(err, ErrInvalidNBTType) {
		t.Errorf("Compound() err = %v, 期望 ErrInvalidNBTType", err)
	}
	if _, err := n.Int(); !errors.Is(err, ErrInvalidNBTType) {
		t.Errorf("Int() err = %v, 期望 ErrInvalidNBTType", err)
	}
	if !strings.Contains(sampleCompound().String(), "'StoredEnchantments' -> [") {
		t.Errorf("String() 输出缺少列表: %s", sampleCompound().String())
	}
}
