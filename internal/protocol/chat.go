package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// MaxChatLen is the serverbound chat message limit for 1.18.
const MaxChatLen = 256

const (
	ChatPositionChat   = 0
	ChatPositionSystem = 1
	ChatPositionHotbar = 2
)

type ChatMessage struct {
	JSON     string
	Position int8
	Sender   uuid.UUID
}

func ParseChatMessage(r io.Reader) (*ChatMessage, error) {
	msg, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	position, err := ReadInt8(r)
	if err != nil {
		return nil, err
	}
	sender, err := ReadUUID(r)
	if err != nil {
		return nil, err
	}
	return &ChatMessage{
		JSON:     msg,
		Position: position,
		Sender:   sender,
	}, nil
}

func CreateChatMessagePacket(message string) (*Packet, error) {
	if len(message) > MaxChatLen {
		return nil, fmt.Errorf("%w: chat message is %d bytes", ErrStringTooLong, len(message))
	}
	buf := new(bytes.Buffer)
	_ = WriteString(buf, message)
	return &Packet{
		ID:      C2SChatMessage,
		Payload: buf.Bytes(),
	}, nil
}

var translations = map[string]string{
	"chat.type.text":                    "<%s> %s",
	"chat.type.announcement":            "[%s] %s",
	"chat.type.emote":                   "* %s %s",
	"multiplayer.player.joined":         "%s joined the game",
	"multiplayer.player.left":           "%s left the game",
	"commands.message.display.incoming": "%s whispers to you: %s",
}

type textComponent struct {
	Text      *string           `json:"text"`
	Translate string            `json:"translate"`
	With      []json.RawMessage `json:"with"`
	Extra     []json.RawMessage `json:"extra"`
}

// PlainText flattens a JSON chat component into the text a player would see.
// Unknown translation keys render as the key followed by their arguments.
func PlainText(component string) (string, error) {
	var sb strings.Builder
	if err := flatten(&sb, json.RawMessage(component)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func flatten(sb *strings.Builder, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return err
		}
		for _, p := range parts {
			if err := flatten(sb, p); err != nil {
				return err
			}
		}
		return nil
	case '{':
	default:
		// numbers and booleans show up as translation arguments
		sb.Write(raw)
		return nil
	}

	var c textComponent
	if err := json.Unmarshal(raw, &c); err != nil {
		return err
	}
	switch {
	case c.Translate != "":
		if err := flattenTranslate(sb, c.Translate, c.With); err != nil {
			return err
		}
	case c.Text != nil:
		sb.WriteString(*c.Text)
	}
	for _, e := range c.Extra {
		if err := flatten(sb, e); err != nil {
			return err
		}
	}
	return nil
}

func flattenTranslate(sb *strings.Builder, key string, with []json.RawMessage) error {
	args := make([]string, len(with))
	for i, w := range with {
		var part strings.Builder
		if err := flatten(&part, w); err != nil {
			return err
		}
		args[i] = part.String()
	}
	format, ok := translations[key]
	if !ok {
		sb.WriteString(key)
		for _, a := range args {
			sb.WriteString(" " + a)
		}
		return nil
	}

	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case '%':
			sb.WriteByte('%')
		case 's':
			if next < len(args) {
				sb.WriteString(args[next])
			}
			next++
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	return nil
}
