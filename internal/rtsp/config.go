package rtsp

import (
	"errors"
	"time"
)

const (
	defaultReadTimeout    = time.Second
	defaultWriteTimeout   = 5 * time.Second
	defaultAcceptTimeout  = time.Second
	defaultReadBufferSize = 2048
	defaultRTPHost        = "127.0.0.1"
)

var errNoDialer = errors.New("no frame pusher configured")

type Config struct {
	// ReadTimeout bounds each blocking read and therefore how long a
	// connection takes to notice a shutdown.
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AcceptTimeout  time.Duration
	ReadBufferSize int
	// RTPHost receives media unless the client names a destination.
	RTPHost string
	Dial    DialFunc
}

func (c Config) withDefaults() Config {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.AcceptTimeout <= 0 {
		c.AcceptTimeout = defaultAcceptTimeout
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = defaultReadBufferSize
	}
	if c.RTPHost == "" {
		c.RTPHost = defaultRTPHost
	}
	if c.Dial == nil {
		c.Dial = func(Destination) (FramePusher, error) {
			return nil, errNoDialer
		}
	}
	return c
}
