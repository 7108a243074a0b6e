package rtsp

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMissingOrInvalidCSeq = errors.New("missing or invalid CSeq")
	ErrUnknownStream        = errors.New("unknown stream")
	ErrMissingTransport     = errors.New("missing transport header")
	ErrInvalidTransportPort = errors.New("invalid transport client port")
	ErrNotSetUp             = errors.New("stream not set up")
	ErrUnsupportedMethod    = errors.New("unsupported method")
	ErrInvalidEncoding      = errors.New("request is not valid UTF-8")

	// ErrConnectionClosed ends a connection loop normally when the peer
	// closes its side.
	ErrConnectionClosed = errors.New("connection closed")
)

// IOError is a read or write failure local to one connection.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
