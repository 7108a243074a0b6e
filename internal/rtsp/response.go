package rtsp

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// HeaderField is a single response header line. Response headers keep the
// order in which they were added.
type HeaderField struct {
	Name  string
	Value string
}

type Response struct {
	Proto   string
	Code    int
	Message string
	CSeq    uint32
	// OmitCSeq is set when the originating request's CSeq could not be
	// determined.
	OmitCSeq bool
	Header   []HeaderField
	Body     string
}

// NewResponse builds a response to a request carrying cseq. The reason
// phrase is taken from the HTTP status table, which RTSP shares.
func NewResponse(code int, cseq uint32) *Response {
	return &Response{
		Proto:   protocolRTSP10,
		Code:    code,
		Message: http.StatusText(code),
		CSeq:    cseq,
	}
}

// AddHeader appends a header line.
func (r *Response) AddHeader(name, value string) {
	r.Header = append(r.Header, HeaderField{Name: name, Value: value})
}

// Get returns the first value of the named header.
func (r *Response) Get(name string) (string, bool) {
	for _, f := range r.Header {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Write encodes the response. CSeq is always the first header line.
func (r *Response) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	proto := r.Proto
	if proto == "" {
		proto = protocolRTSP10
	}
	if _, err := fmt.Fprintf(bw, "%s %d %s\r\n", proto, r.Code, r.Message); err != nil {
		return fmt.Errorf("failed to write response line: %w", err)
	}
	if !r.OmitCSeq {
		if _, err := fmt.Fprintf(bw, "%s: %d\r\n", headerCSeq, r.CSeq); err != nil {
			return err
		}
	}
	for _, f := range r.Header {
		if f.Name == headerCSeq {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(lineTerminator); err != nil {
		return err
	}
	if r.Body != "" {
		if _, err := bw.WriteString(r.Body); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (r *Response) String() string {
	var sb strings.Builder
	_ = r.Write(&sb)
	return sb.String()
}

// Bytes returns the wire encoding of the response.
func (r *Response) Bytes() []byte {
	return []byte(r.String())
}

func formatContentLength(body string) string {
	return strconv.Itoa(len(body))
}
