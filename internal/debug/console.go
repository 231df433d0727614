// Package debug provides a line console for steering a connected client by
// hand.
package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/Versifine/dune/internal/event"
	"github.com/Versifine/dune/internal/protocol"
)

// Submitter queues a serverbound packet. *client.Driver satisfies it.
type Submitter interface {
	Submit(pkt *protocol.Packet) error
}

// StateProvider reports what the client knows about itself.
// *event.Reporter satisfies it.
type StateProvider interface {
	Player() event.PlayerInfo
	Position() (event.Vec3, bool)
}

type Console struct {
	out         Submitter
	state       StateProvider
	in          io.Reader
	w           io.Writer
	interactive bool
}

// NewConsole reads commands from stdin. The prompt is only shown when stdin
// is a terminal.
func NewConsole(out Submitter, state StateProvider) *Console {
	return &Console{
		out:         out,
		state:       state,
		in:          os.Stdin,
		w:           os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Start executes lines until ctx is done or input ends. A line that is not
// a :command is sent as chat.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.out == nil {
		return fmt.Errorf("console submitter is nil")
	}
	if c.state == nil {
		return fmt.Errorf("console state provider is nil")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		done <- scanner.Err()
	}()

	if c.interactive {
		fmt.Fprintln(c.w, "[debug] console started (:help for commands)")
	}
	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			if err != nil {
				return fmt.Errorf("read console input: %w", err)
			}
			return nil
		case line := <-lines:
			if err := c.Execute(line); err != nil {
				return err
			}
		}
	}
}

func (c *Console) prompt() {
	if c.interactive {
		fmt.Fprint(c.w, "> ")
	}
}

// Execute runs one line. Bad input is reported on the console; only a
// failure to submit a packet is returned.
func (c *Console) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, ":") {
		return c.say(line)
	}

	parts := strings.Fields(line[1:])
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "help":
		c.printHelp()
	case "say":
		return c.say(strings.TrimSpace(strings.TrimPrefix(line[1:], "say")))
	case "state":
		c.printState()
	case "move":
		return c.move(parts)
	case "look":
		return c.look(parts)
	default:
		fmt.Fprintf(c.w, "[debug] unknown command: %s\n", parts[0])
	}
	return nil
}

func (c *Console) say(text string) error {
	if text == "" {
		return nil
	}
	pkt, err := protocol.CreateChatMessagePacket(text)
	if err != nil {
		fmt.Fprintf(c.w, "[debug] %v\n", err)
		return nil
	}
	return c.out.Submit(pkt)
}

func (c *Console) printState() {
	p := c.state.Player()
	pos := "unknown"
	if v, ok := c.state.Position(); ok {
		pos = v.String()
	}
	fmt.Fprintf(c.w, "[debug] player=%s uuid=%s pos=%s\n", p.Name, p.UUID, pos)
}

func (c *Console) move(parts []string) error {
	if len(parts) != 4 {
		fmt.Fprintln(c.w, "[debug] usage: :move <x> <y> <z>")
		return nil
	}
	x, err1 := strconv.ParseFloat(parts[1], 64)
	y, err2 := strconv.ParseFloat(parts[2], 64)
	z, err3 := strconv.ParseFloat(parts[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Fprintln(c.w, "[debug] invalid move args")
		return nil
	}
	return c.out.Submit(protocol.CreateMovePlayerPacket(&protocol.MovePlayer{X: x, Y: y, Z: z, OnGround: true}))
}

func (c *Console) look(parts []string) error {
	if len(parts) != 3 {
		fmt.Fprintln(c.w, "[debug] usage: :look <yaw> <pitch>")
		return nil
	}
	yaw, err1 := strconv.ParseFloat(parts[1], 32)
	pitch, err2 := strconv.ParseFloat(parts[2], 32)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(c.w, "[debug] invalid look args")
		return nil
	}
	pos, ok := c.state.Position()
	if !ok {
		fmt.Fprintln(c.w, "[debug] position unknown")
		return nil
	}
	return c.out.Submit(protocol.CreateMovePlayerPacket(&protocol.MovePlayer{
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Yaw:      normalizeYaw(float32(yaw)),
		Pitch:    clampPitch(float32(pitch)),
		OnGround: true,
		HasLook:  true,
	}))
}

func (c *Console) printHelp() {
	fmt.Fprint(c.w, "[debug] commands:\n")
	fmt.Fprint(c.w, "  <text>: send chat\n")
	fmt.Fprint(c.w, "  :say <text>\n")
	fmt.Fprint(c.w, "  :move <x> <y> <z>\n")
	fmt.Fprint(c.w, "  :look <yaw> <pitch>\n")
	fmt.Fprint(c.w, "  :state\n")
	fmt.Fprint(c.w, "  :help\n")
}

func normalizeYaw(yaw float32) float32 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}

func clampPitch(pitch float32) float32 {
	if pitch < -90 {
		return -90
	}
	if pitch > 90 {
		return 90
	}
	return pitch
}
