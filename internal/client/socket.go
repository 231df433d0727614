package client

// Socket is a connected, non-blocking byte stream. Read returns io.EOF on
// a clean peer close; Read and Write return ErrWouldBlock when the socket
// is not ready. Write may write fewer bytes than given.
type Socket interface {
	Fd() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}
