package rtsp

import (
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Registry maps stream names to their active transport session. A stream
// holds at most one session at a time.
type Registry struct {
	sync.RWMutex
	streams map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]*Session),
	}
}

// AddStream registers name. Adding an existing stream is a no-op.
func (r *Registry) AddStream(name string) {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.streams[name]; !ok {
		r.streams[name] = nil
	}
}

// RemoveStream unregisters name and releases its session.
func (r *Registry) RemoveStream(name string) bool {
	r.Lock()
	sess, ok := r.streams[name]
	delete(r.streams, name)
	r.Unlock()

	release(sess)
	return ok
}

func (r *Registry) Exists(name string) bool {
	r.RLock()
	defer r.RUnlock()
	_, ok := r.streams[name]
	return ok
}

// Streams returns the registered stream names in sorted order.
func (r *Registry) Streams() []string {
	r.RLock()
	names := make([]string, 0, len(r.streams))
	for name := range r.streams {
		names = append(names, name)
	}
	r.RUnlock()
	sort.Strings(names)
	return names
}

// SetSession installs sess for name, releasing the session it replaces.
// When name already has a session, sess takes over its ID.
func (r *Registry) SetSession(name string, sess *Session) error {
	r.Lock()
	prev, ok := r.streams[name]
	if !ok {
		r.Unlock()
		return ErrUnknownStream
	}
	if prev != nil {
		sess.ID = prev.ID
	}
	r.streams[name] = sess
	r.Unlock()

	if prev != sess {
		release(prev)
	}
	return nil
}

// GetSession returns the session of name, or nil when the stream is unknown
// or not set up.
func (r *Registry) GetSession(name string) *Session {
	r.RLock()
	defer r.RUnlock()
	return r.streams[name]
}

// RemoveSession releases the session of name, keeping the stream
// registered. It returns the removed session, or nil when there was none.
func (r *Registry) RemoveSession(name string) *Session {
	r.Lock()
	sess, ok := r.streams[name]
	if ok {
		r.streams[name] = nil
	}
	r.Unlock()

	release(sess)
	return sess
}

// Close releases every session. Streams stay registered.
func (r *Registry) Close() {
	r.Lock()
	var sessions []*Session
	for name, sess := range r.streams {
		if sess != nil {
			sessions = append(sessions, sess)
			r.streams[name] = nil
		}
	}
	r.Unlock()

	for _, sess := range sessions {
		release(sess)
	}
}

func release(sess *Session) {
	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"stream":  sess.Stream,
			"session": sess.ID,
		}).Warn("failed to release transport session")
	}
}
