// Package bserve is a from-scratch JSON-over-HTTP application substrate: it
// accepts raw byte streams on a socket, frames them into structured requests,
// dispatches them through a sorted route table and serializes results back
// into wire bytes. Framing, the JSON codec (the bjson subpackage) and form
// decoding (the urlenc subpackage) are all hand-rolled; no net/http.
//
// # Overview
//
// A minimal server:
//
//	type Config struct{ Version string }
//
//	srv := bserve.New(Config{Version: "1"}, pool,
//	    bserve.WithLogger[Config](logger))
//
//	srv.RegisterFunc(bserve.Get, "/users", func(ctx bserve.Context[Config], r *bserve.Request) (*bserve.Response, error) {
//	    rows, err := ctx.DB.QueryContext(ctx, `SELECT name FROM users`)
//	    if err != nil {
//	        return nil, bserve.ServerError("query users")
//	    }
//	    defer rows.Close()
//	    ...
//	    return bserve.JSON(out), nil
//	})
//
//	srv.SetCORS("*", "Origin, Content-Type, Accept, Authorization")
//	err := srv.ListenAndServe(ctx, ":8080")
//
// # Handler Signature
//
// Handlers receive a typed context carrying the per-request pooled database
// connection and the shared application configuration, and return either a
// *Response or an error:
//
//	func(ctx bserve.Context[V], r *bserve.Request) (*bserve.Response, error)
//
// Errors created with [NewError] (or the [BadRequest], [NotFound], ... helpers)
// render as their configured status with a JSON envelope of the form
// {"code":"<status>","message":"<text>"}. [Verbatim] errors send their message
// as-is. Any other error renders as a generic 500 and is logged.
//
// # Routing
//
// Routes are stored in per-method buckets that are sorted once, right before
// the accept loop starts, and binary-searched thereafter. Paths are
// normalized identically at registration and at framing time, so "/users/"
// and "/users" are the same route. A route registered with the [Any] method
// lands in the wildcard bucket, which also serves as the fallback when no
// exact-method route matches. OPTIONS requests never reach the table: they
// are answered directly with an empty response carrying the configured CORS
// headers.
//
// # Wire Protocol
//
// The engine speaks a conforming subset of HTTP/1.1: request line, headers,
// an optional body gated by Content-Length. There is no chunked encoding and
// no keep-alive; every response declares Connection: close and the
// connection is closed once the response is fully written. Request bodies
// classify by content type into JSON objects or arrays, form values, plain
// text or raw bytes; see [Body].
package bserve
