package rtsp

// Method is an RTSP request method. Tokens outside the known set are kept
// verbatim and rejected at dispatch time rather than by the parser.
type Method string

const (
	MethodOptions  Method = "OPTIONS"
	MethodDescribe Method = "DESCRIBE"
	MethodSetup    Method = "SETUP"
	MethodPlay     Method = "PLAY"
	MethodPause    Method = "PAUSE"
	MethodTeardown Method = "TEARDOWN"
	MethodAnnounce Method = "ANNOUNCE"
	MethodRecord   Method = "RECORD"
	MethodRedirect Method = "REDIRECT"
)

var knownMethods = map[Method]struct{}{
	MethodOptions:  {},
	MethodDescribe: {},
	MethodSetup:    {},
	MethodPlay:     {},
	MethodPause:    {},
	MethodTeardown: {},
	MethodAnnounce: {},
	MethodRecord:   {},
	MethodRedirect: {},
}

// ParseMethod maps a request line token onto a Method. Matching is exact and
// case-sensitive; an unmatched token is returned as an unknown method.
func ParseMethod(token string) Method {
	return Method(token)
}

// Known reports whether m is one of the protocol methods.
func (m Method) Known() bool {
	_, ok := knownMethods[m]
	return ok
}

func (m Method) String() string {
	return string(m)
}
