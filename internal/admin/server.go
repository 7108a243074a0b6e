// Package admin exposes stream administration and metrics over HTTP.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Streams is the stream registry administered by the server.
type Streams interface {
	AddStream(name string)
	RemoveStream(name string) bool
	Streams() []string
}

type Server struct {
	addr    string
	streams Streams
}

func NewServer(addr string, streams Streams) *Server {
	return &Server{addr: addr, streams: streams}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/streams", func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet {
			writer.Header().Set("Allow", http.MethodGet)
			http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(writer).Encode(map[string][]string{"streams": s.streams.Streams()})
		if err != nil {
			log.WithError(err).Warn("failed to encode stream list")
		}
	})
	mux.HandleFunc("/streams/", func(writer http.ResponseWriter, request *http.Request) {
		name := strings.TrimPrefix(request.URL.Path, "/streams/")
		if name == "" || strings.Contains(name, "/") {
			http.Error(writer, "invalid stream name", http.StatusBadRequest)
			return
		}
		switch request.Method {
		case http.MethodPut, http.MethodPost:
			s.streams.AddStream(name)
			writer.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if !s.streams.RemoveStream(name) {
				http.Error(writer, "stream not found", http.StatusNotFound)
				return
			}
			writer.WriteHeader(http.StatusNoContent)
		default:
			writer.Header().Set("Allow", "PUT, POST, DELETE")
			http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
	return mux
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	server := http.Server{Addr: s.addr, Handler: s.Handler()}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.WithField("addr", s.addr).Info("admin server listening")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})
	return group.Wait()
}
