package transport

import "strings"

type option struct {
	unicast   bool
	multicast bool
	profile   string
	protocol  Protocol
	params    []Parameter
}

func (o *option) Protocol() Protocol {
	return o.protocol
}

func (o *option) IsUnicast() bool {
	return o.unicast
}

func (o *option) Parameters() []Parameter {
	return o.params
}

func (o *option) String() string {
	segments := []string{o.profile}
	if o.unicast {
		segments = append(segments, "unicast")
	}
	if o.multicast {
		segments = append(segments, "multicast")
	}
	for _, param := range o.params {
		segments = append(segments, param.String())
	}

	return strings.Join(segments, ";")
}
