//go:build !linux

package poller

// New reports ErrUnsupported; only the epoll backend exists.
func New() (Poller, error) {
	return nil, ErrUnsupported
}
