package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestKeepAlive(t *testing.T) {
	packet := CreateKeepAlivePacket(12345678, S2CPlayKeepAlive)
	if packet.ID != S2CPlayKeepAlive {
		t.Errorf("packet.ID = %#x, 期望 %#x", packet.ID, S2CPlayKeepAlive)
	}
	if len(packet.Payload) != 8 {
		t.Errorf("负载长度 = %d, 期望 8", len(packet.Payload))
	}

	parsed, err := ParseKeepAlive(packet.Reader())
	if err != nil {
		t.Fatalf("ParseKeepAlive() 错误: %v", err)
	}
	if parsed.ID != 12345678 {
		t.Errorf("ID = %d, 期望 12345678", parsed.ID)
	}

	reply := parsed.Reply()
	if reply.ID != C2SPlayKeepAlive {
		t.Errorf("reply.ID = %#x, 期望 %#x", reply.ID, C2SPlayKeepAlive)
	}
	if !bytes.Equal(reply.Payload, packet.Payload) {
		t.Errorf("reply 负载 = %v, 期望与请求相同 %v", reply.Payload, packet.Payload)
	}
}

func TestKeepAliveTruncated(t *testing.T) {
	_, err := ParseKeepAlive(bytes.NewReader([]byte{0, 0, 0, 1}))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("err = %v, 期望 ErrUnexpectedEOF", err)
	}
}
