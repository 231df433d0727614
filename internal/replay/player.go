package replay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/Versifine/dune/internal/event"
)

// Stats summarizes a playback.
type Stats struct {
	Packets int
	Skipped int
}

// Player feeds a recording through a Dispatcher, which re-tracks the
// connection state from the recorded handshake and login.
type Player struct {
	r     io.Reader
	disp  *event.Dispatcher
	stats Stats
}

// NewPlayer reads the snappy stream written by a Recorder. disp should
// have no sender: replies are never sent during playback.
func NewPlayer(r io.Reader, disp *event.Dispatcher) *Player {
	return &Player{r: reader(r), disp: disp}
}

func (p *Player) Stats() Stats {
	return p.stats
}

// Run plays every packet in order. Packets that fail to decode are logged
// and skipped; a subscriber failure or a corrupt recording stops playback.
func (p *Player) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		dp, err := ReadDiskPacket(p.r)
		if errors.Is(err, io.EOF) {
			slog.Info("Replay finished", "packets", p.stats.Packets, "skipped", p.stats.Skipped)
			return nil
		}
		if err != nil {
			return err
		}

		index := p.stats.Packets
		p.stats.Packets++
		err = p.disp.HandlePacket(dp.Direction, dp.Packet())
		switch {
		case err == nil:
		case errors.Is(err, event.ErrSubscriberFailure):
			return err
		case errors.Is(err, event.ErrDisconnected):
			slog.Info("Recorded disconnect", "index", index, "error", err)
		default:
			p.stats.Skipped++
			slog.Warn("Skipping packet", "index", index, "direction", dp.Direction.String(), "id", dp.ID, "error", err)
		}
	}
}

// PlayFile plays the recording at path.
func PlayFile(ctx context.Context, path string, disp *event.Dispatcher) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()
	p := NewPlayer(f, disp)
	err = p.Run(ctx)
	return p.Stats(), err
}
