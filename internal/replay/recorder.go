package replay

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/golang/snappy"

	"github.com/Versifine/dune/internal/protocol"
	"github.com/Versifine/dune/internal/session"
)

// FrameHandler matches client.FrameHandler.
type FrameHandler interface {
	HandleFrames(frames []session.Frame) error
}

// Sender matches event.Sender.
type Sender interface {
	EnqueuePacket(pkt *protocol.Packet) error
}

// Recorder appends DiskPackets to a snappy stream. It is safe for
// concurrent use; the proxy records both directions at once.
type Recorder struct {
	mu     sync.Mutex
	w      *snappy.Writer
	closer io.Closer
	count  int
	err    error
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: snappy.NewBufferedWriter(w)}
}

// Create truncates path and records into it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := NewRecorder(f)
	r.closer = f
	slog.Info("Recording traffic", "path", path)
	return r, nil
}

// Record writes one packet. After the first write error every call returns
// that error.
func (r *Recorder) Record(dir protocol.Direction, pkt *protocol.Packet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	dp := DiskPacket{ID: pkt.ID, Direction: dir, Data: pkt.Payload}
	if _, err := dp.WriteTo(r.w); err != nil {
		r.err = err
		return err
	}
	r.count++
	return nil
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}

// Close flushes the stream and closes the file opened by Create.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.w.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	slog.Info("Recording closed", "packets", r.count)
	return err
}

type recordingHandler struct {
	r    *Recorder
	next FrameHandler
}

// Frames records each clientbound frame just before passing it to next,
// one frame at a time, so replies next queues for a frame are recorded
// before the following frame. Frames that do not parse are passed on
// unrecorded for next to reject.
func (r *Recorder) Frames(next FrameHandler) FrameHandler {
	return &recordingHandler{r: r, next: next}
}

func (h *recordingHandler) HandleFrames(frames []session.Frame) error {
	for _, f := range frames {
		if pkt, err := protocol.ParsePacket(f.Payload); err == nil {
			if err := h.r.Record(protocol.S2C, pkt); err != nil {
				return err
			}
		}
		if err := h.next.HandleFrames([]session.Frame{f}); err != nil {
			return err
		}
	}
	return nil
}

type recordingSender struct {
	r    *Recorder
	next Sender
}

// Sender records serverbound packets before passing them to next.
func (r *Recorder) Sender(next Sender) Sender {
	return &recordingSender{r: r, next: next}
}

func (s *recordingSender) EnqueuePacket(pkt *protocol.Packet) error {
	if err := s.r.Record(protocol.C2S, pkt); err != nil {
		return err
	}
	return s.next.EnqueuePacket(pkt)
}

// reader returns a buffered decompressing reader over a recording.
func reader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(snappy.NewReader(r), 64*1024)
}
