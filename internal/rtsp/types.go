package rtsp

import (
	"context"
	"net"
)

// Server accepts RTSP connections and owns the stream registry shared by
// every connection.
type Server interface {
	AddStream(name string)
	RemoveStream(name string) bool
	Streams() []string
	// PushFrame hands one access unit to the stream's transport session.
	// It returns false when the unit was not accepted; the caller should
	// offer the same unit again later.
	PushFrame(stream string, unit []byte) bool
	ListenAndServe(ctx context.Context, addr string) error
	Serve(ctx context.Context, ln net.Listener) error
	Shutdown()
}

// FramePusher delivers access units of one stream to a client.
type FramePusher interface {
	PushFrame(unit []byte) error
	// LocalPorts returns the local RTP and RTCP ports, or zeros when the
	// pusher has none.
	LocalPorts() (rtp, rtcp int)
	Close() error
}

// Destination is where a transport session delivers media.
type Destination struct {
	Host     string
	RTPPort  int
	RTCPPort int
}

// DialFunc opens a FramePusher towards dest.
type DialFunc func(dest Destination) (FramePusher, error)
