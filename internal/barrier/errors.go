package barrier

import (
	"errors"
	"fmt"
)

// ErrPacketTooSmall is returned when a packet's declared length is shorter
// than the 4-byte tag it must carry.
var ErrPacketTooSmall = errors.New("barrier: packet too small")

// ErrFormat is returned when a required literal (the "Barrier" greeting)
// does not match what was read off the wire.
var ErrFormat = errors.New("barrier: unexpected literal in handshake")

// ConnectError wraps a failure to connect to the server; the supervisor
// retries on this class of error.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("barrier: connect failed: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
