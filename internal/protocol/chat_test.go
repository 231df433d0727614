package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseChatMessage(t *testing.T) {
	sender := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	component := `{"text":"hello"}`

	buf := &bytes.Buffer{}
	_ = WriteString(buf, component)
	_ = WriteByte(buf, ChatPositionSystem)
	_ = WriteUUID(buf, sender)

	msg, err := ParseChatMessage(buf)
	if err != nil {
		t.Fatalf("ParseChatMessage() 返回错误: %v", err)
	}
	if msg.JSON != component {
		t.Errorf("JSON = %q, 期望 %q", msg.JSON, component)
	}
	if msg.Position != ChatPositionSystem {
		t.Errorf("Position = %d, 期望 %d", msg.Position, ChatPositionSystem)
	}
	if msg.Sender != sender {
		t.Errorf("Sender = %s, 期望 %s", msg.Sender, sender)
	}
}

func TestCreateChatMessagePacket(t *testing.T) {
	pkt, err := CreateChatMessagePacket("/trade")
	if err != nil {
		t.Fatalf("CreateChatMessagePacket() 返回错误: %v", err)
	}
	if pkt.ID != C2SChatMessage {
		t.Errorf("ID = %#x, 期望 %#x", pkt.ID, C2SChatMessage)
	}
	got, _ := ReadString(pkt.Reader())
	if got != "/trade" {
		t.Errorf("消息 = %q", got)
	}

	if _, err := CreateChatMessagePacket(strings.Repeat("a", MaxChatLen)); err != nil {
		t.Errorf("恰好 %d 字节不应报错: %v", MaxChatLen, err)
	}
	_, err = CreateChatMessagePacket(strings.Repeat("a", MaxChatLen+1))
	if !errors.Is(err, ErrStringTooLong) {
		t.Errorf("err = %v, 期望 ErrStringTooLong", err)
	}
}

// TestPlainText 测试聊天组件展开为纯文本
func TestPlainText(t *testing.T) {
	tests := []struct {
		name      string
		component string
		expected  string
	}{
		{"纯字符串", `"hi there"`, "hi there"},
		{"text", `{"text":"hello"}`, "hello"},
		{"text 加 extra", `{"text":"a","extra":[{"text":"b"},"c"]}`, "abc"},
		{"数组", `[{"text":"x"},{"text":"y"}]`, "xy"},
		{
			"玩家聊天",
			`{"translate":"chat.type.text","with":[{"text":"Steve"},"hello"]}`,
			"<Steve> hello",
		},
		{
			"加入游戏",
			`{"translate":"multiplayer.player.joined","with":[{"text":"Alex","color":"yellow"}]}`,
			"Alex joined the game",
		},
		{"未知翻译键", `{"translate":"death.attack.fall","with":["Steve"]}`, "death.attack.fall Steve"},
		{"数字参数", `{"translate":"chat.type.text","with":["n",5]}`, "<n> 5"},
		{"参数不足", `{"translate":"chat.type.text","with":["only"]}`, "<only> "},
		{"空 text", `{"text":""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.component)
			if err != nil {
				t.Fatalf("PlainText() 返回错误: %v", err)
			}
			if got != tt.expected {
				t.Errorf("PlainText() = %q, 期望 %q", got, tt.expected)
			}
		})
	}
}

func TestPlainTextInvalid(t *testing.T) {
	for _, in := range []string{`{"text":`, `[1,`, `"unterminated`} {
		if _, err := PlainText(in); err == nil {
			t.Errorf("PlainText(%q) 应该返回错误", in)
		}
	}
}
