// Package source feeds an H.264 Annex-B byte stream to a stream's transport
// session, looping forever.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bilbercode/rtsp-server/internal/nal"
)

const (
	defaultFrameRate     = 25
	defaultRetryInterval = 10 * time.Millisecond
)

var ErrNoUnits = errors.New("no access units in source")

type Config struct {
	Stream string
	// FrameRate paces units that carry coded pictures; parameter sets and
	// other units are sent without delay.
	FrameRate     int
	RetryInterval time.Duration
}

type service struct {
	pusher Pusher
	config Config
	data   []byte
}

// NewFileService reads an elementary stream from path.
func NewFileService(path string, pusher Pusher, config Config) (Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return NewService(data, pusher, config)
}

func NewService(data []byte, pusher Pusher, config Config) (Service, error) {
	if _, ok := nal.NextUnit(data, 0); !ok {
		return nil, ErrNoUnits
	}
	if config.FrameRate <= 0 {
		config.FrameRate = defaultFrameRate
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = defaultRetryInterval
	}
	return &service{pusher: pusher, config: config, data: data}, nil
}

// Start pushes units until ctx is done. A refused unit is offered again
// after RetryInterval; the stream restarts from the beginning once the last
// unit has been accepted.
func (s *service) Start(ctx context.Context) error {
	logger := log.WithField("stream", s.config.Stream)
	ticker := time.NewTicker(time.Second / time.Duration(s.config.FrameRate))
	defer ticker.Stop()

	logger.Info("source started")
	pos := 0
	waiting := false
	for {
		unit, ok := nal.NextUnit(s.data, pos)
		if !ok {
			pos = 0
			continue
		}

		for !s.pusher.PushFrame(s.config.Stream, unit.Data) {
			if !waiting {
				logger.Debug("no playing session, holding unit")
				waiting = true
			}
			select {
			case <-ctx.Done():
				logger.Info("source stopped")
				return nil
			case <-time.After(s.config.RetryInterval):
			}
		}
		if waiting {
			logger.Debug("session playing, resuming")
			waiting = false
		}

		if unit.Type().IsVCL() {
			select {
			case <-ctx.Done():
				logger.Info("source stopped")
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			logger.Info("source stopped")
			return nil
		}

		pos = unit.End
		if unit.Last {
			logger.Debug("end of source reached, replaying")
			pos = 0
		}
	}
}
