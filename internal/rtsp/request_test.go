package rtsp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *Request
	}{
		{
			name: "options",
			raw:  "OPTIONS rtsp://host/live RTSP/1.0\r\nCSeq: 1\r\n\r\n",
			want: &Request{
				Method:  MethodOptions,
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    1,
				Header:  Header{"CSeq": "1"},
			},
		},
		{
			name: "setup with transport",
			raw:  "SETUP rtsp://host/live RTSP/1.0\r\nCSeq: 3\r\nTransport: RTP/AVP;unicast;client_port=6000-6001\r\n\r\n",
			want: &Request{
				Method:  MethodSetup,
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    3,
				Header: Header{
					"CSeq":      "3",
					"Transport": "RTP/AVP;unicast;client_port=6000-6001",
				},
			},
		},
		{
			name: "unknown method kept",
			raw:  "GET_PARAMETER rtsp://host/live RTSP/1.0\r\nCSeq: 9\r\n\r\n",
			want: &Request{
				Method:  Method("GET_PARAMETER"),
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    9,
				Header:  Header{"CSeq": "9"},
			},
		},
		{
			name: "duplicate header last wins and values trimmed",
			raw:  "PLAY rtsp://host/live RTSP/1.0\r\nCSeq: 4\r\nSession:  abc \r\nSession: def\r\nRange: npt=0:00:01-\r\n\r\n",
			want: &Request{
				Method:  MethodPlay,
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    4,
				Header: Header{
					"CSeq":    "4",
					"Session": "def",
					"Range":   "npt=0:00:01-",
				},
			},
		},
		{
			name: "body",
			raw:  "ANNOUNCE rtsp://host/live RTSP/1.0\r\nCSeq: 7\r\nContent-Type: application/sdp\r\n\r\nv=0\r\ns=x",
			want: &Request{
				Method:  MethodAnnounce,
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    7,
				Header: Header{
					"CSeq":         "7",
					"Content-Type": "application/sdp",
				},
				Body: "v=0\r\ns=x",
			},
		},
		{
			name: "no blank line",
			raw:  "TEARDOWN rtsp://host/live RTSP/1.0\r\nCSeq: 5",
			want: &Request{
				Method:  MethodTeardown,
				URI:     "rtsp://host/live",
				Version: "RTSP/1.0",
				CSeq:    5,
				Header:  Header{"CSeq": "5"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", ErrMalformedRequestLine},
		{"two tokens", "OPTIONS rtsp://host/live\r\nCSeq: 1\r\n\r\n", ErrMalformedRequestLine},
		{"missing cseq", "OPTIONS rtsp://host/live RTSP/1.0\r\nSession: 1\r\n\r\n", ErrMissingOrInvalidCSeq},
		{"cseq not a number", "OPTIONS rtsp://host/live RTSP/1.0\r\nCSeq: one\r\n\r\n", ErrMissingOrInvalidCSeq},
		{"negative cseq", "OPTIONS rtsp://host/live RTSP/1.0\r\nCSeq: -1\r\n\r\n", ErrMissingOrInvalidCSeq},
		{"cseq key is case sensitive", "OPTIONS rtsp://host/live RTSP/1.0\r\ncseq: 1\r\n\r\n", ErrMissingOrInvalidCSeq},
		{"cseq in body only", "OPTIONS rtsp://host/live RTSP/1.0\r\n\r\nCSeq: 1", ErrMissingOrInvalidCSeq},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.raw)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRequest_WriteRoundTrip(t *testing.T) {
	requests := []*Request{
		{
			Method:  MethodSetup,
			URI:     "rtsp://host/live",
			Version: "RTSP/1.0",
			CSeq:    3,
			Header: Header{
				"CSeq":       "3",
				"Transport":  "RTP/AVP;unicast;client_port=6000-6001",
				"User-Agent": "test",
			},
		},
		{
			Method:  Method("FLY"),
			URI:     "rtsp://host/a/b/c",
			Version: "RTSP/2.0",
			CSeq:    4294967295,
			Header:  Header{"CSeq": "4294967295"},
		},
	}
	for _, want := range requests {
		t.Run(want.Method.String(), func(t *testing.T) {
			got, err := ParseRequest(want.String())
			require.NoError(t, err)
			assert.Equal(t, want.Method, got.Method)
			assert.Equal(t, want.URI, got.URI)
			assert.Equal(t, want.Version, got.Version)
			assert.Equal(t, want.CSeq, got.CSeq)
			assert.Equal(t, want.Header, got.Header)
		})
	}
}

func TestRequest_WriteIsStable(t *testing.T) {
	req := &Request{
		Method: MethodDescribe,
		URI:    "rtsp://host/live",
		CSeq:   2,
		Header: Header{"Accept": "application/sdp", "User-Agent": "test"},
	}
	want := "DESCRIBE rtsp://host/live RTSP/1.0\r\nCSeq: 2\r\nAccept: application/sdp\r\nUser-Agent: test\r\n\r\n"
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, req.String())
	}
}

func TestMethod_Known(t *testing.T) {
	for _, m := range []Method{
		MethodOptions, MethodDescribe, MethodSetup, MethodPlay, MethodPause,
		MethodTeardown, MethodAnnounce, MethodRecord, MethodRedirect,
	} {
		assert.True(t, m.Known(), m.String())
	}
	assert.False(t, ParseMethod("options").Known())
	assert.False(t, ParseMethod("GET_PARAMETER").Known())
	assert.Equal(t, MethodPlay, ParseMethod("PLAY"))
}
