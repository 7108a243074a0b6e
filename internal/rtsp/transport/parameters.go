package transport

import (
	"fmt"
	"strconv"
	"time"
)

type Destination string

func (p Destination) String() string {
	if p == "" {
		return "destination"
	}
	return "destination=" + string(p)
}

type Interleaved []int

func (p Interleaved) String() string {
	return "interleaved=" + formatRange(p)
}

type Append string

func (p Append) String() string {
	return "append"
}

type TTL time.Duration

func (p TTL) String() string {
	return fmt.Sprintf("ttl=%d", time.Duration(p)/time.Second)
}

type Layers int

func (p Layers) String() string {
	return fmt.Sprintf("layers=%d", p)
}

type Port []int

func (p Port) String() string {
	return "port=" + formatRange(p)
}

// ClientPort is the RTP port, optionally followed by the RTCP port, on
// which the client receives media.
type ClientPort []int

func (p ClientPort) String() string {
	return "client_port=" + formatRange(p)
}

// RTP returns the media port.
func (p ClientPort) RTP() int {
	return p[0]
}

// RTCP returns the control port, defaulting to the port after RTP.
func (p ClientPort) RTCP() int {
	if len(p) > 1 {
		return p[1]
	}
	return p[0] + 1
}

type ServerPort []int

func (p ServerPort) String() string {
	return "server_port=" + formatRange(p)
}

type SSRC string

func (p SSRC) String() string {
	return "ssrc=" + string(p)
}

type Mode string

func (p Mode) String() string {
	return "mode=" + string(p)
}

// Unknown preserves a parameter this package does not interpret.
type Unknown string

func (p Unknown) String() string {
	return string(p)
}

func formatRange(p []int) string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(p[0])
	default:
		return fmt.Sprintf("%d-%d", p[0], p[1])
	}
}
