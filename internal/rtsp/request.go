package rtsp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	lineTerminator = "\r\n"
	protocolRTSP10 = "RTSP/1.0"

	headerCSeq          = "CSeq"
	headerTransport     = "Transport"
	headerSession       = "Session"
	headerPublic        = "Public"
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"
	headerRange         = "Range"
)

// Header holds request header fields. Keys are case-sensitive and a later
// duplicate replaces an earlier one.
type Header map[string]string

// Get returns the value of key and whether it was present.
func (h Header) Get(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

type Request struct {
	Method  Method
	URI     string
	Version string
	CSeq    uint32
	Header  Header
	// Body is empty when the request carried none.
	Body string
}

// ParseRequest decodes one request from its wire text.
func ParseRequest(raw string) (*Request, error) {
	lines := strings.Split(raw, lineTerminator)

	parts := strings.Fields(lines[0])
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, lines[0])
	}

	req := &Request{
		Method:  ParseMethod(parts[0]),
		URI:     parts[1],
		Version: parts[2],
		Header:  Header{},
	}

	i := 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		key, value, ok := cut(line, ":")
		if !ok {
			continue
		}
		req.Header[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	cseq, ok := req.Header[headerCSeq]
	if !ok {
		return nil, ErrMissingOrInvalidCSeq
	}
	n, err := strconv.ParseUint(cseq, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingOrInvalidCSeq, err)
	}
	req.CSeq = uint32(n)

	if i < len(lines) {
		req.Body = strings.Join(lines[i:], lineTerminator)
	}

	return req, nil
}

// Write encodes the request. Headers other than CSeq are written in sorted
// key order so identical requests produce identical bytes.
func (r *Request) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	version := r.Version
	if version == "" {
		version = protocolRTSP10
	}
	if _, err := fmt.Fprintf(bw, "%s %s %s\r\n", r.Method, r.URI, version); err != nil {
		return fmt.Errorf("failed to write request line: %w", err)
	}
	if _, err := fmt.Fprintf(bw, "%s: %d\r\n", headerCSeq, r.CSeq); err != nil {
		return err
	}

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		if k == headerCSeq {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", k, r.Header[k]); err != nil {
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

func (r *Request) String() string {
	var sb strings.Builder
	_ = r.Write(&sb)
	return sb.String()
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
