package transport

import "errors"

type Protocol string

const (
	ProtocolUnknown Protocol = ""
	ProtocolUDP     Protocol = "UDP"
	ProtocolTCP     Protocol = "TCP"
)

var (
	ErrEmptyHeader  = errors.New("empty transport header")
	ErrInvalidPort  = errors.New("invalid transport port")
	ErrNoClientPort = errors.New("no client_port in transport header")
)

type Header interface {
	Options() []Option
	// ClientPort returns the client_port of the first option offering one,
	// together with that option.
	ClientPort() (Option, ClientPort, error)
}

type Option interface {
	IsUnicast() bool
	Protocol() Protocol
	Parameters() []Parameter
	String() string
}

type Parameter interface {
	String() string
}

type header struct {
	options []Option
}

func (h *header) Options() []Option {
	return h.options
}

func (h *header) ClientPort() (Option, ClientPort, error) {
	for _, o := range h.options {
		for _, p := range o.Parameters() {
			if cp, ok := p.(ClientPort); ok {
				return o, cp, nil
			}
		}
	}
	return nil, nil, ErrNoClientPort
}

// DestinationOf returns the destination parameter of o, if one was given
// with a value.
func DestinationOf(o Option) (string, bool) {
	for _, p := range o.Parameters() {
		if d, ok := p.(Destination); ok && d != "" {
			return string(d), true
		}
	}
	return "", false
}
