package source

import "context"

// Pusher accepts access units for a named stream.
type Pusher interface {
	PushFrame(stream string, unit []byte) bool
}

type Service interface {
	Start(ctx context.Context) error
}
