package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// TestLoginStart 测试 LoginStart 包的构造与解析
func TestLoginStart(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"标准用户名", "Steve"},
		{"最短用户名", "A"},
		{"最长用户名-16字符", "Player1234567890"},
		{"带下划线", "dune_bot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt := CreateLoginStartPacket(tt.username)
			if pkt.ID != C2SLoginStart {
				t.Errorf("ID = %#x, 期望 %#x", pkt.ID, C2SLoginStart)
			}
			want := append([]byte{byte(len(tt.username))}, tt.username...)
			if !bytes.Equal(pkt.Payload, want) {
				t.Errorf("Payload = %v, 期望 %v", pkt.Payload, want)
			}

			ls, err := ParseLoginStart(pkt.Reader())
			if err != nil {
				t.Fatalf("ParseLoginStart() 返回错误: %v", err)
			}
			if ls.Username != tt.username {
				t.Errorf("Username = %q, 期望 %q", ls.Username, tt.username)
			}
		})
	}
}

// TestLoginSuccess 测试 LoginSuccess 包的往返
func TestLoginSuccess(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

	pkt := CreateLoginSuccessPacket(id, "Notch")
	if pkt.ID != S2CLoginSuccess {
		t.Errorf("ID = %#x, 期望 %#x", pkt.ID, S2CLoginSuccess)
	}
	if len(pkt.Payload) != 16+1+len("Notch") {
		t.Errorf("Payload 长度 = %d", len(pkt.Payload))
	}

	ls, err := ParseLoginSuccess(pkt.Reader())
	if err != nil {
		t.Fatalf("ParseLoginSuccess() 返回错误: %v", err)
	}
	if ls.UUID != id {
		t.Errorf("UUID = %s, 期望 %s", ls.UUID, id)
	}
	if ls.Username != "Notch" {
		t.Errorf("Username = %q, 期望 Notch", ls.Username)
	}
}

func TestParseLoginSuccessErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"空数据", []byte{}},
		{"UUID 不完整", make([]byte, 10)},
		{"缺少用户名", make([]byte, 16)},
		{"用户名被截断", append(make([]byte, 16), 0x05, 'a', 'b')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLoginSuccess(bytes.NewReader(tt.input))
			if !errors.Is(err, ErrUnexpectedEOF) {
				t.Errorf("err = %v, 期望 ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestParseSetCompression(t *testing.T) {
	sc, err := ParseSetCompression(bytes.NewReader([]byte{0x80, 0x02}))
	if err != nil {
		t.Fatalf("ParseSetCompression() 返回错误: %v", err)
	}
	if sc.Threshold != 256 {
		t.Errorf("Threshold = %d, 期望 256", sc.Threshold)
	}
}

func TestParseDisconnect(t *testing.T) {
	reason := `{"text":"Server closed"}`
	buf := &bytes.Buffer{}
	_ = WriteString(buf, reason)

	d, err := ParseDisconnect(buf)
	if err != nil {
		t.Fatalf("ParseDisconnect() 返回错误: %v", err)
	}
	if d.Reason != reason {
		t.Errorf("Reason = %q, 期望 %q", d.Reason, reason)
	}
}
