package transport

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse decodes a Transport header value. Comma separated options are
// returned in offer order. Parameters that are not understood are kept as
// Unknown so the option can be echoed back unchanged.
func Parse(value string) (Header, error) {
	if strings.TrimSpace(value) == "" {
		return nil, ErrEmptyHeader
	}
	var opts []Option
	for _, option := range strings.Split(value, ",") {
		o, err := parseOption(strings.TrimSpace(option))
		if err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}

	return &header{options: opts}, nil
}

func parseOption(in string) (Option, error) {
	parts := strings.Split(in, ";")
	opt := &option{profile: parts[0]}
	switch strings.ToUpper(parts[0]) {
	case "RTP/AVP", "RTP/AVP/UDP":
		opt.protocol = ProtocolUDP
	case "RTP/AVP/TCP":
		opt.protocol = ProtocolTCP
	default:
		opt.protocol = ProtocolUnknown
	}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		param, err := parseParam(part)
		if err != nil {
			return nil, err
		}
		switch param.(type) {
		case unicast:
			opt.unicast = true
		case multicast:
			opt.multicast = true
		default:
			opt.params = append(opt.params, param)
		}
	}
	return opt, nil
}

type (
	unicast   struct{}
	multicast struct{}
)

func (unicast) String() string   { return "unicast" }
func (multicast) String() string { return "multicast" }

// parseParam decodes a single parameter. Only client_port is required to be
// well formed; any other parameter with a bad value is kept as Unknown.
func parseParam(part string) (Parameter, error) {
	key, value, hasValue := splitParam(part)
	switch key {
	case "unicast":
		return unicast{}, nil
	case "multicast":
		return multicast{}, nil
	case "destination":
		return Destination(value), nil
	case "append":
		return Append(""), nil
	case "ssrc":
		return SSRC(value), nil
	case "mode":
		return Mode(strings.Trim(value, `"`)), nil
	case "client_port":
		ports, err := parseClientPort(value, hasValue)
		if err != nil {
			return nil, err
		}
		return ports, nil
	case "interleaved":
		if channels, err := parseRange(key, value, hasValue); err == nil {
			return Interleaved(channels), nil
		}
	case "ttl":
		if seconds, err := strconv.Atoi(value); err == nil {
			return TTL(time.Second * time.Duration(seconds)), nil
		}
	case "layers":
		if layers, err := strconv.Atoi(value); err == nil {
			return Layers(layers), nil
		}
	case "server_port":
		if ports, err := parsePorts(key, value, hasValue); err == nil {
			return ServerPort(ports), nil
		}
	case "port":
		if ports, err := parsePorts(key, value, hasValue); err == nil {
			return Port(ports), nil
		}
	}
	return Unknown(part), nil
}

// parseClientPort requires a valid RTP port. The RTCP port after the dash is
// dropped when it is empty or invalid, so RTCP falls back to RTP+1.
func parseClientPort(value string, hasValue bool) (ClientPort, error) {
	if !hasValue {
		return nil, fmt.Errorf("%w: client_port has no value", ErrInvalidPort)
	}
	rtpValue, rtcpValue, _ := cut(value, "-")
	rtp, err := parsePort(rtpValue)
	if err != nil {
		return nil, fmt.Errorf("%w: client_port: %v", ErrInvalidPort, err)
	}
	if rtcp, err := parsePort(rtcpValue); err == nil {
		return ClientPort{rtp, rtcp}, nil
	}
	return ClientPort{rtp}, nil
}

func parsePort(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return n, nil
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func splitParam(part string) (key, value string, hasValue bool) {
	i := strings.IndexByte(part, '=')
	if i < 0 {
		return strings.ToLower(part), "", false
	}
	return strings.ToLower(part[:i]), part[i+1:], true
}

func parseRange(key, value string, hasValue bool) ([]int, error) {
	if !hasValue || value == "" {
		return nil, fmt.Errorf("malformed parameter %s expected at least one value", key)
	}
	var out []int
	for _, v := range strings.SplitN(value, "-", 2) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s, received %s: %w", key, v, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parsePorts(key, value string, hasValue bool) ([]int, error) {
	ports, err := parseRange(key, value, hasValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPort, err)
	}
	for _, p := range ports {
		if p <= 0 || p > 65535 {
			return nil, fmt.Errorf("%w: %s port %d out of range", ErrInvalidPort, key, p)
		}
	}
	return ports, nil
}
