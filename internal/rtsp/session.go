package rtsp

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// State of a stream's transport session. A stream without a session is in
// the implicit "no session" state.
type State int32

const (
	StateReady State = iota + 1
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Session binds a stream to a negotiated destination and its pusher.
type Session struct {
	ID          string
	Stream      string
	Transport   string
	Destination Destination

	pusher    FramePusher
	state     int32
	closeOnce sync.Once
}

func newSession(id, stream, transport string, dest Destination, pusher FramePusher) *Session {
	return &Session{
		ID:          id,
		Stream:      stream,
		Transport:   transport,
		Destination: dest,
		pusher:      pusher,
		state:       int32(StateReady),
	}
}

func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

func (s *Session) setState(state State) {
	atomic.StoreInt32(&s.state, int32(state))
}

// Push sends unit when the session is playing.
func (s *Session) Push(unit []byte) bool {
	if s.State() != StatePlaying {
		return false
	}
	if err := s.pusher.PushFrame(unit); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"stream":  s.Stream,
			"session": s.ID,
		}).Debug("frame push failed")
		return false
	}
	return true
}

// Close releases the pusher. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pusher.Close()
	})
	return err
}
