package protocol

type State int

const (
	Handshaking State = iota
	Status
	Login
	Play
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "Handshaking"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	default:
		return "Unknown"
	}
}

// Direction is the travel direction of a packet. The values are the
// on-disk encoding used by recordings.
type Direction uint8

const (
	C2S Direction = iota
	S2C
)

func (d Direction) String() string {
	switch d {
	case C2S:
		return "C->S"
	case S2C:
		return "S->C"
	default:
		return "?"
	}
}

// ConnState tracks the protocol state of one connection. It is owned by the
// goroutine driving the connection and is not safe for concurrent use.
type ConnState struct {
	state State
}

func NewConnState() *ConnState {
	return &ConnState{state: Handshaking}
}

func (cs *ConnState) Set(state State) {
	cs.state = state
}

func (cs *ConnState) Get() State {
	return cs.state
}
