package protocol

// Protocol 758, game version 1.18.2.
const CurrentProtocolVersion = 758

const (
	// Handshaking (C→S)
	C2SHandshake = 0x00

	// Login (C→S)
	C2SLoginStart = 0x00

	// Login (S→C)
	S2CLoginDisconnect = 0x00
	S2CLoginSuccess    = 0x02
	S2CSetCompression  = 0x03

	// Play (S→C)
	S2CChatMessage    = 0x0F
	S2CPlayDisconnect = 0x1A
	S2CPlayKeepAlive  = 0x21
	S2CTradeList      = 0x28
	S2CPlayerPosition = 0x38

	// Play (C→S)
	C2STeleportConfirm = 0x00
	C2SChatMessage     = 0x03
	C2SUseEntity       = 0x0D
	C2SPlayKeepAlive   = 0x0F
	C2SPosition        = 0x11
	C2SPositionLook    = 0x12
)
