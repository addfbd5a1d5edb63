package bserve

// Middleware wraps handlers for cross-cutting concerns.
type Middleware[V any] func(Handler[V]) Handler[V]

// Wrap takes the inner handler h and wraps it with middleware. The order is
// that of the Gorilla and Chi routers: the middleware provided first is the
// "outer" most wrapping, the middleware provided last is the "inner" most
// wrapping (closest to the handler).
func Wrap[V any](h Handler[V], m ...Middleware[V]) Handler[V] {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
