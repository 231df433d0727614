//go:build linux

package poller

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const maxEvents = 64

// wakeKey is reserved for the eventfd.
const wakeKey = ^uint64(0)

type epoll struct {
	epfd   int
	wakefd int
	buf    []unix.EpollEvent
	closed atomic.Bool
}

// New creates an epoll instance with an eventfd registered for Wake.
func New() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "epoll_create1")
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, errors.Wrap(err, "eventfd")
	}
	ev := toEpoll(wakeKey, Interest{Readable: true})
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		_ = unix.Close(wakefd)
		_ = unix.Close(epfd)
		return nil, errors.Wrap(err, "epoll_ctl add eventfd")
	}
	return &epoll{
		epfd:   epfd,
		wakefd: wakefd,
		buf:    make([]unix.EpollEvent, maxEvents),
	}, nil
}

// keys travel in the 64-bit epoll_data union, split over Fd and Pad.
func toEpoll(key uint64, in Interest) unix.EpollEvent {
	var mask uint32
	if in.Readable {
		mask |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if in.Writable {
		mask |= unix.EPOLLOUT
	}
	return unix.EpollEvent{
		Events: mask,
		Fd:     int32(uint32(key)),
		Pad:    int32(uint32(key >> 32)),
	}
}

func keyOf(ev *unix.EpollEvent) uint64 {
	return uint64(uint32(ev.Fd)) | uint64(uint32(ev.Pad))<<32
}

func (p *epoll) ctl(op int, fd int, key uint64, in Interest) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if key == wakeKey {
		return errors.Errorf("key %#x is reserved", key)
	}
	ev := toEpoll(key, in)
	return unix.EpollCtl(p.epfd, op, fd, &ev)
}

func (p *epoll) Add(fd int, key uint64, in Interest) error {
	return errors.Wrapf(p.ctl(unix.EPOLL_CTL_ADD, fd, key, in), "epoll_ctl add fd %d", fd)
}

func (p *epoll) Modify(fd int, key uint64, in Interest) error {
	return errors.Wrapf(p.ctl(unix.EPOLL_CTL_MOD, fd, key, in), "epoll_ctl mod fd %d", fd)
}

func (p *epoll) Delete(fd int) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return errors.Wrapf(unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil), "epoll_ctl del fd %d", fd)
}

func (p *epoll) Wait(events []Event, timeout time.Duration) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	msec := -1
	if timeout >= 0 {
		msec = int(timeout / time.Millisecond)
	}
	max := len(events) + 1
	if max > len(p.buf) {
		max = len(p.buf)
	}
	n, err := unix.EpollWait(p.epfd, p.buf[:max], msec)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "epoll_wait")
	}

	count := 0
	for i := 0; i < n; i++ {
		ev := &p.buf[i]
		if keyOf(ev) == wakeKey {
			p.drainWake()
			continue
		}
		if count == len(events) {
			// level-triggered, so it is reported again on the next Wait
			break
		}
		events[count] = Event{
			Key:      keyOf(ev),
			Readable: ev.Events&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0,
			Writable: ev.Events&unix.EPOLLOUT != 0,
			Hangup:   ev.Events&(unix.EPOLLHUP|unix.EPOLLERR) != 0,
		}
		count++
	}
	return count, nil
}

func (p *epoll) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(p.wakefd, buf[:]); err != nil {
			return
		}
	}
}

func (p *epoll) Wake() error {
	if p.closed.Load() {
		return ErrClosed
	}
	var one = [8]byte{1}
	if _, err := unix.Write(p.wakefd, one[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		return errors.Wrap(err, "eventfd write")
	}
	return nil
}

func (p *epoll) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err1 := unix.Close(p.wakefd)
	err2 := unix.Close(p.epfd)
	if err1 != nil {
		return errors.Wrap(err1, "close eventfd")
	}
	return errors.Wrap(err2, "close epoll")
}
