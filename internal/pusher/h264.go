// Package pusher sends H.264 access units to a client as RTP over UDP.
package pusher

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"

	"github.com/bilbercode/rtsp-server/internal/nal"
)

const (
	defaultMTU            = 1400
	defaultPayloadType    = 96
	defaultClockRate      = 90000
	defaultFrameRate      = 25
	defaultReportInterval = 5 * time.Second

	// seconds between 1900-01-01 and 1970-01-01
	ntpEpochOffset = 2208988800
)

var ErrClosed = errors.New("pusher closed")

type Config struct {
	Host     string
	RTPPort  int
	RTCPPort int

	MTU         uint16
	PayloadType uint8
	ClockRate   uint32
	// FrameRate sets how far the RTP clock advances per coded picture.
	FrameRate      int
	ReportInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MTU == 0 {
		c.MTU = defaultMTU
	}
	if c.PayloadType == 0 {
		c.PayloadType = defaultPayloadType
	}
	if c.ClockRate == 0 {
		c.ClockRate = defaultClockRate
	}
	if c.FrameRate <= 0 {
		c.FrameRate = defaultFrameRate
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = defaultReportInterval
	}
	if c.RTCPPort == 0 {
		c.RTCPPort = c.RTPPort + 1
	}
	return c
}

// H264 packetizes Annex-B access units and writes them to one client. A
// sender report goes to the client's RTCP port every ReportInterval.
type H264 struct {
	sync.Mutex
	config     Config
	rtpConn    *net.UDPConn
	rtcpConn   *net.UDPConn
	packetizer rtp.Packetizer
	ssrc       uint32

	samplesPerFrame uint32
	lastTimestamp   uint32
	packetCount     uint32
	octetCount      uint32
	lastReport      time.Time
	closed          bool
}

// Dial opens the RTP and RTCP sockets towards the configured client.
func Dial(config Config) (*H264, error) {
	config = config.withDefaults()

	rtpConn, err := dialUDP(config.Host, config.RTPPort)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RTP destination: %w", err)
	}
	rtcpConn, err := dialUDP(config.Host, config.RTCPPort)
	if err != nil {
		_ = rtpConn.Close()
		return nil, fmt.Errorf("failed to dial RTCP destination: %w", err)
	}

	ssrc := uuid.New().ID()
	return &H264{
		config:   config,
		rtpConn:  rtpConn,
		rtcpConn: rtcpConn,
		packetizer: rtp.NewPacketizer(
			config.MTU,
			config.PayloadType,
			ssrc,
			&codecs.H264Payloader{},
			rtp.NewRandomSequencer(),
			config.ClockRate,
		),
		ssrc:            ssrc,
		samplesPerFrame: config.ClockRate / uint32(config.FrameRate),
	}, nil
}

func dialUDP(host string, port int) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return net.DialUDP("udp", nil, addr)
}

// PushFrame sends one access unit, start code included. The RTP clock
// advances only after units carrying coded picture data.
func (h *H264) PushFrame(unit []byte) error {
	h.Lock()
	defer h.Unlock()
	if h.closed {
		return ErrClosed
	}

	samples := uint32(0)
	if nal.TypeOf(unit).IsVCL() {
		samples = h.samplesPerFrame
	}

	for _, packet := range h.packetizer.Packetize(unit, samples) {
		b, err := packet.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal RTP packet: %w", err)
		}
		if _, err := h.rtpConn.Write(b); err != nil {
			return fmt.Errorf("failed to write RTP packet: %w", err)
		}
		h.lastTimestamp = packet.Timestamp
		h.packetCount++
		h.octetCount += uint32(len(packet.Payload))
	}

	if h.packetCount > 0 && time.Since(h.lastReport) >= h.config.ReportInterval {
		if err := h.sendReport(time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func (h *H264) sendReport(now time.Time) error {
	report := &rtcp.SenderReport{
		SSRC:        h.ssrc,
		NTPTime:     toNTP(now),
		RTPTime:     h.lastTimestamp,
		PacketCount: h.packetCount,
		OctetCount:  h.octetCount,
	}
	b, err := report.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal sender report: %w", err)
	}
	if _, err := h.rtcpConn.Write(b); err != nil {
		return fmt.Errorf("failed to write sender report: %w", err)
	}
	h.lastReport = now
	return nil
}

// LocalPorts returns the source ports of the RTP and RTCP sockets.
func (h *H264) LocalPorts() (int, int) {
	return localPort(h.rtpConn), localPort(h.rtcpConn)
}

func localPort(c *net.UDPConn) int {
	if addr, ok := c.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// SSRC returns the synchronization source of the stream.
func (h *H264) SSRC() uint32 {
	return h.ssrc
}

func (h *H264) Close() error {
	h.Lock()
	defer h.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	rtpErr := h.rtpConn.Close()
	rtcpErr := h.rtcpConn.Close()
	if rtpErr != nil {
		return rtpErr
	}
	return rtcpErr
}

func toNTP(t time.Time) uint64 {
	secs := uint64(t.Unix()) + ntpEpochOffset
	frac := uint64(t.Nanosecond()) * (1 << 32) / uint64(time.Second)
	return secs<<32 | frac
}
