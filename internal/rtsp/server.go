package rtsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type server struct {
	registry *Registry
	engine   *Engine
	config   Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewServer(config Config) Server {
	config = config.withDefaults()
	registry := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	return &server{
		registry: registry,
		engine:   NewEngine(registry, config),
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *server) AddStream(name string) {
	s.registry.AddStream(name)
	log.WithField("stream", name).Info("stream registered")
}

func (s *server) RemoveStream(name string) bool {
	ok := s.registry.RemoveStream(name)
	if ok {
		log.WithField("stream", name).Info("stream removed")
	}
	return ok
}

func (s *server) Streams() []string {
	return s.registry.Streams()
}

func (s *server) PushFrame(stream string, unit []byte) bool {
	sess := s.registry.GetSession(stream)
	if sess == nil || !sess.Push(unit) {
		framesRejected.WithLabelValues(stream).Inc()
		return false
	}
	framesPushed.WithLabelValues(stream).Inc()
	return true
}

// Shutdown stops the accept loop and every connection loop. Loops notice
// within one accept or read timeout.
func (s *server) Shutdown() {
	s.cancel()
}

func (s *server) ListenAndServe(ctx context.Context, addr string) error {
	conf := net.ListenConfig{}
	listener, err := conf.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on address %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

type deadlineListener interface {
	SetDeadline(t time.Time) error
}

// Serve accepts connections on ln until ctx is done or Shutdown is called,
// then waits for every connection to finish and releases all sessions.
func (s *server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	log.WithField("addr", ln.Addr().String()).Info("RTSP server listening")
	err := s.acceptLoop(ctx, ln)
	_ = ln.Close()

	s.wg.Wait()
	s.registry.Close()
	log.Info("RTSP server stopped")
	return err
}

func (s *server) acceptLoop(ctx context.Context, ln net.Listener) error {
	dl, canPoll := ln.(deadlineListener)
	for ctx.Err() == nil {
		if canPoll {
			_ = dl.SetDeadline(time.Now().Add(s.config.AcceptTimeout))
		}
		nc, err := ln.Accept()
		if err != nil {
			var ne net.Error
			switch {
			case ctx.Err() != nil:
				return nil
			case errors.As(err, &ne) && ne.Timeout():
				continue
			default:
				return fmt.Errorf("failed to accept connection: %w", err)
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, nc)
		}()
	}
	return nil
}

func (s *server) handle(ctx context.Context, nc net.Conn) {
	logger := log.WithField("remote", nc.RemoteAddr().String())
	connectionsActive.Inc()
	defer connectionsActive.Dec()
	defer nc.Close()
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("connection handler panicked")
		}
	}()

	logger.Debug("client connected")
	err := s.serveConn(ctx, nc)
	var ioErr *IOError
	switch {
	case errors.Is(err, ErrConnectionClosed), errors.Is(err, context.Canceled):
		logger.Debug("client disconnected")
	case errors.As(err, &ioErr):
		logger.WithError(err).Warn("connection failed")
	case err != nil:
		logger.WithError(err).Error("connection ended")
	}
}

// serveConn answers requests on nc strictly in arrival order.
func (s *server) serveConn(ctx context.Context, nc net.Conn) error {
	buf := make([]byte, s.config.ReadBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_ = nc.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		n, err := nc.Read(buf)
		if n > 0 {
			res := s.engine.Respond(string(buf[:n]))
			_ = nc.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if werr := res.Write(nc); werr != nil {
				return &IOError{Op: "write", Err: werr}
			}
		}

		var ne net.Error
		switch {
		case err == nil && n == 0:
			return ErrConnectionClosed
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			return ErrConnectionClosed
		case errors.As(err, &ne) && ne.Timeout():
			continue
		default:
			return &IOError{Op: "read", Err: err}
		}
	}
}
