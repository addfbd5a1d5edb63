package bserve

import (
	"context"
	"database/sql"
)

// Context carries the request-scoped collaborators into a handler: the
// pooled database connection acquired for this request and the shared
// read-only application configuration V.
type Context[V any] struct {
	context.Context

	// DB is the connection acquired from the pool immediately before
	// dispatch. It is released when the handler completes. Nil when the
	// server runs without a pool.
	DB *sql.Conn

	// Config is the shared immutable application configuration.
	Config V
}

// Handler handles a framed request, returning either a response or an error.
// Returned [*Error] values render with their configured status; any other
// error maps to a 500.
type Handler[V any] interface {
	Serve(ctx Context[V], r *Request) (*Response, error)
}

// HandlerFunc allows casting a function to implement [Handler].
type HandlerFunc[V any] func(Context[V], *Request) (*Response, error)

// Serve implements the [Handler] interface.
func (f HandlerFunc[V]) Serve(ctx Context[V], r *Request) (*Response, error) {
	return f(ctx, r)
}
