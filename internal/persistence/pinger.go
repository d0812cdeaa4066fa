package persistence

import "context"

// Pinger is a backend handle that the readiness check pings.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

var (
	_ Pinger = (*Postgres)(nil)
	_ Pinger = (*Mongo)(nil)
	_ Pinger = (*Redis)(nil)
)
