package rtsp

import (
	"fmt"

	"github.com/pion/sdp/v3"
)

const (
	h264PayloadType = 96
	h264ClockRate   = 90000
)

// describe returns the session description advertising one H.264 video
// stream for name.
func describe(name string) (string, error) {
	description := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      0,
			SessionVersion: 0,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "127.0.0.1",
		},
		SessionName: sdp.SessionName(name),
		TimeDescriptions: []sdp.TimeDescription{
			{
				Timing: sdp.Timing{},
			},
		},
		MediaDescriptions: []*sdp.MediaDescription{
			{
				MediaName: sdp.MediaName{
					Media:   "video",
					Port:    sdp.RangedPort{Value: 0},
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{fmt.Sprint(h264PayloadType)},
				},
				Attributes: []sdp.Attribute{
					{
						Key:   "rtpmap",
						Value: fmt.Sprintf("%d H264/%d", h264PayloadType, h264ClockRate),
					},
				},
			},
		},
	}

	b, err := description.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal session description: %w", err)
	}
	return string(b), nil
}
