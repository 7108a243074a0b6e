package rtsp

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_Write(t *testing.T) {
	tests := []struct {
		name string
		res  *Response
		want string
	}{
		{
			name: "ok with headers",
			res: func() *Response {
				r := NewResponse(http.StatusOK, 3)
				r.AddHeader("Session", "abc")
				r.AddHeader("Transport", "RTP/AVP;unicast;client_port=6000-6001")
				return r
			}(),
			want: "RTSP/1.0 200 OK\r\nCSeq: 3\r\nSession: abc\r\nTransport: RTP/AVP;unicast;client_port=6000-6001\r\n\r\n",
		},
		{
			name: "bad request",
			res:  NewResponse(http.StatusBadRequest, 12),
			want: "RTSP/1.0 400 Bad Request\r\nCSeq: 12\r\n\r\n",
		},
		{
			name: "cseq unknown",
			res: &Response{
				Code:     http.StatusBadRequest,
				Message:  "Bad Request",
				OmitCSeq: true,
			},
			want: "RTSP/1.0 400 Bad Request\r\n\r\n",
		},
		{
			name: "body",
			res: func() *Response {
				r := NewResponse(http.StatusOK, 2)
				r.AddHeader("Content-Type", "application/sdp")
				r.AddHeader("Content-Length", formatContentLength("v=0\r\n"))
				r.Body = "v=0\r\n"
				return r
			}(),
			want: "RTSP/1.0 200 OK\r\nCSeq: 2\r\nContent-Type: application/sdp\r\nContent-Length: 5\r\n\r\nv=0\r\n",
		},
		{
			name: "cseq header in list is ignored",
			res: func() *Response {
				r := NewResponse(http.StatusOK, 8)
				r.AddHeader("CSeq", "99")
				r.AddHeader("Public", "OPTIONS")
				return r
			}(),
			want: "RTSP/1.0 200 OK\r\nCSeq: 8\r\nPublic: OPTIONS\r\n\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.String())
			assert.Equal(t, tt.want, string(tt.res.Bytes()))
		})
	}
}

func TestResponse_Get(t *testing.T) {
	r := NewResponse(http.StatusOK, 1)
	r.AddHeader("Session", "a")
	r.AddHeader("Session", "b")

	v, ok := r.Get("Session")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = r.Get("Transport")
	assert.False(t, ok)
}
