package rtsp

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bilbercode/rtsp-server/internal/rtsp/transport"
)

var publicMethods = strings.Join([]string{
	MethodOptions.String(),
	MethodDescribe.String(),
	MethodSetup.String(),
	MethodTeardown.String(),
	MethodPlay.String(),
	MethodPause.String(),
}, ", ")

// Engine answers requests against a Registry. Session state is kept per
// stream, not per connection.
type Engine struct {
	registry *Registry
	dial     DialFunc
	rtpHost  string
}

func NewEngine(registry *Registry, config Config) *Engine {
	config = config.withDefaults()
	return &Engine{
		registry: registry,
		dial:     config.Dial,
		rtpHost:  config.RTPHost,
	}
}

// Respond decodes raw and answers it. Undecodable input yields a 400 that
// carries the CSeq when one can still be found.
func (e *Engine) Respond(raw string) *Response {
	var (
		req *Request
		err = ErrInvalidEncoding
	)
	if utf8.ValidString(raw) {
		req, err = ParseRequest(raw)
	}
	if err != nil {
		log.WithError(err).Info("rejecting request")
		requestsTotal.WithLabelValues("INVALID", strconv.Itoa(http.StatusBadRequest)).Inc()
		return badRequest(raw)
	}
	return e.Handle(req)
}

// Handle dispatches req. Every error, and every method that produces
// nothing to send, is answered with 400 Bad Request.
func (e *Engine) Handle(req *Request) *Response {
	logger := log.WithFields(log.Fields{
		"method": req.Method,
		"uri":    req.URI,
		"cseq":   req.CSeq,
	})

	res, err := e.dispatch(req)
	if err == nil && len(res.Header) == 0 && res.Body == "" {
		err = fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}
	if err != nil {
		logger.WithError(err).Debug("request failed")
		res = NewResponse(http.StatusBadRequest, req.CSeq)
	}

	method := req.Method.String()
	if !req.Method.Known() {
		method = "UNKNOWN"
	}
	requestsTotal.WithLabelValues(method, strconv.Itoa(res.Code)).Inc()
	return res
}

func (e *Engine) dispatch(req *Request) (*Response, error) {
	name := streamName(req.URI)
	if name == "" || !e.registry.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStream, name)
	}

	switch req.Method {
	case MethodOptions:
		return e.handleOptions(req)
	case MethodDescribe:
		return e.handleDescribe(req, name)
	case MethodSetup:
		return e.handleSetup(req, name)
	case MethodPlay:
		return e.handlePlay(req, name)
	case MethodPause:
		return e.handlePause(req, name)
	case MethodTeardown:
		return e.handleTeardown(req, name)
	default:
		return NewResponse(http.StatusOK, req.CSeq), nil
	}
}

func (e *Engine) handleOptions(req *Request) (*Response, error) {
	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerPublic, publicMethods)
	return res, nil
}

func (e *Engine) handleDescribe(req *Request, name string) (*Response, error) {
	body, err := describe(name)
	if err != nil {
		return nil, err
	}
	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerContentType, "application/sdp")
	res.AddHeader(headerContentLength, formatContentLength(body))
	res.Body = body
	return res, nil
}

func (e *Engine) handleSetup(req *Request, name string) (*Response, error) {
	value, ok := req.Header.Get(headerTransport)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, ErrMissingTransport
	}
	th, err := transport.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransportPort, err)
	}
	offer, clientPort, err := th.ClientPort()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransportPort, err)
	}

	dest := Destination{
		Host:     e.rtpHost,
		RTPPort:  clientPort.RTP(),
		RTCPPort: clientPort.RTCP(),
	}
	if host, ok := transport.DestinationOf(offer); ok {
		dest.Host = host
	}

	pusher, err := e.dial(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport to %s:%d: %w", dest.Host, dest.RTPPort, err)
	}

	sess := newSession(uuid.NewString(), name, value, dest, pusher)
	if err := e.registry.SetSession(name, sess); err != nil {
		_ = pusher.Close()
		return nil, err
	}
	id := sess.ID

	echoed := value
	if rtpPort, rtcpPort := pusher.LocalPorts(); rtpPort > 0 {
		echoed += ";" + transport.ServerPort{rtpPort, rtcpPort}.String()
	}

	log.WithFields(log.Fields{
		"stream":  name,
		"session": id,
		"dest":    fmt.Sprintf("%s:%d", dest.Host, dest.RTPPort),
	}).Info("transport session set up")

	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerSession, id)
	res.AddHeader(headerTransport, echoed)
	return res, nil
}

func (e *Engine) handlePlay(req *Request, name string) (*Response, error) {
	sess := e.registry.GetSession(name)
	if sess == nil {
		return nil, ErrNotSetUp
	}
	sess.setState(StatePlaying)

	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerSession, sess.ID)
	res.AddHeader(headerRange, "npt=0.000-")
	return res, nil
}

func (e *Engine) handlePause(req *Request, name string) (*Response, error) {
	sess := e.registry.GetSession(name)
	if sess == nil {
		return nil, ErrNotSetUp
	}
	sess.setState(StateReady)

	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerSession, sess.ID)
	return res, nil
}

func (e *Engine) handleTeardown(req *Request, name string) (*Response, error) {
	sess := e.registry.RemoveSession(name)
	if sess == nil {
		return nil, ErrNotSetUp
	}

	log.WithFields(log.Fields{
		"stream":  name,
		"session": sess.ID,
	}).Info("transport session torn down")

	res := NewResponse(http.StatusOK, req.CSeq)
	res.AddHeader(headerSession, sess.ID)
	return res, nil
}

// streamName returns the final path segment of uri.
func streamName(uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil {
		p = u.Path
	}
	return p[strings.LastIndex(p, "/")+1:]
}

func badRequest(raw string) *Response {
	res := NewResponse(http.StatusBadRequest, 0)
	cseq, ok := recoverCSeq(raw)
	res.CSeq = cseq
	res.OmitCSeq = !ok
	return res
}

// recoverCSeq looks for a usable CSeq line in a request that failed to
// parse.
func recoverCSeq(raw string) (uint32, bool) {
	for _, line := range strings.Split(raw, lineTerminator) {
		if line == "" {
			break
		}
		key, value, ok := cut(line, ":")
		if !ok || strings.TrimSpace(key) != headerCSeq {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(n), true
	}
	return 0, false
}
