package rtsp

import (
	"errors"
	"sync"
)

type fakePusher struct {
	sync.Mutex
	dest    Destination
	frames  [][]byte
	closed  bool
	fail    bool
	rtpPort int
}

func (f *fakePusher) PushFrame(unit []byte) error {
	f.Lock()
	defer f.Unlock()
	if f.closed || f.fail {
		return errors.New("push refused")
	}
	f.frames = append(f.frames, unit)
	return nil
}

func (f *fakePusher) LocalPorts() (int, int) {
	if f.rtpPort == 0 {
		return 0, 0
	}
	return f.rtpPort, f.rtpPort + 1
}

func (f *fakePusher) Close() error {
	f.Lock()
	defer f.Unlock()
	f.closed = true
	return nil
}

func (f *fakePusher) isClosed() bool {
	f.Lock()
	defer f.Unlock()
	return f.closed
}

type fakeDialer struct {
	sync.Mutex
	pushers []*fakePusher
	rtpPort int
	err     error
}

func (d *fakeDialer) dial(dest Destination) (FramePusher, error) {
	d.Lock()
	defer d.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	p := &fakePusher{dest: dest, rtpPort: d.rtpPort}
	d.pushers = append(d.pushers, p)
	return p, nil
}

func (d *fakeDialer) last() *fakePusher {
	d.Lock()
	defer d.Unlock()
	if len(d.pushers) == 0 {
		return nil
	}
	return d.pushers[len(d.pushers)-1]
}
