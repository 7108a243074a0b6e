package pusher

import (
	"net"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *net.UDPConn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestH264_PushFrame(t *testing.T) {
	rtpListener := listenUDP(t)
	rtcpListener := listenUDP(t)

	p, err := Dial(Config{
		Host:           "127.0.0.1",
		RTPPort:        rtpListener.LocalAddr().(*net.UDPAddr).Port,
		RTCPPort:       rtcpListener.LocalAddr().(*net.UDPAddr).Port,
		ReportInterval: time.Nanosecond,
	})
	require.NoError(t, err)
	defer p.Close()

	rtpPort, rtcpPort := p.LocalPorts()
	assert.NotZero(t, rtpPort)
	assert.NotZero(t, rtcpPort)

	unit := []byte{0, 0, 0, 1, 0x65, 0x88, 0x84, 0x00, 0x33}
	require.NoError(t, p.PushFrame(unit))

	packet := &rtp.Packet{}
	require.NoError(t, packet.Unmarshal(read(t, rtpListener)))
	assert.Equal(t, uint8(96), packet.PayloadType)
	assert.Equal(t, p.SSRC(), packet.SSRC)
	assert.True(t, packet.Marker)
	assert.Equal(t, unit[4:], packet.Payload)

	packets, err := rtcp.Unmarshal(read(t, rtcpListener))
	require.NoError(t, err)
	require.Len(t, packets, 1)
	report, ok := packets[0].(*rtcp.SenderReport)
	require.True(t, ok)
	assert.Equal(t, p.SSRC(), report.SSRC)
	assert.Equal(t, uint32(1), report.PacketCount)
	assert.Equal(t, uint32(len(unit)-4), report.OctetCount)
}

func TestH264_TimestampAdvancesPerPicture(t *testing.T) {
	rtpListener := listenUDP(t)

	p, err := Dial(Config{
		Host:           "127.0.0.1",
		RTPPort:        rtpListener.LocalAddr().(*net.UDPAddr).Port,
		FrameRate:      30,
		ReportInterval: time.Hour,
	})
	require.NoError(t, err)
	defer p.Close()

	first := &rtp.Packet{}
	require.NoError(t, p.PushFrame([]byte{0, 0, 1, 0x65, 0x01, 0x02}))
	require.NoError(t, first.Unmarshal(read(t, rtpListener)))

	second := &rtp.Packet{}
	require.NoError(t, p.PushFrame([]byte{0, 0, 1, 0x41, 0x03, 0x04}))
	require.NoError(t, second.Unmarshal(read(t, rtpListener)))

	assert.Equal(t, uint32(90000/30), second.Timestamp-first.Timestamp)
	assert.Equal(t, first.SequenceNumber+1, second.SequenceNumber)
}

func TestH264_Close(t *testing.T) {
	rtpListener := listenUDP(t)

	p, err := Dial(Config{
		Host:    "127.0.0.1",
		RTPPort: rtpListener.LocalAddr().(*net.UDPAddr).Port,
	})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.PushFrame([]byte{0, 0, 1, 0x65, 0x01}), ErrClosed)
}

func TestToNTP(t *testing.T) {
	ts := time.Unix(0, int64(time.Second/2))
	ntp := toNTP(ts)
	assert.Equal(t, uint64(ntpEpochOffset), ntp>>32)
	assert.Equal(t, uint64(1<<31), ntp&0xffffffff)
}
