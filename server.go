package bserve

import (
	"bufio"
	"context"
	"database/sql"
	"net"
	"sync"
	"time"

	"github.com/advdv/bserve/bjson"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
)

// Server is the request/response engine: it accepts raw byte streams, frames
// them into requests, dispatches through the sorted route table and writes
// serialized responses back. It is generic over V, the shared immutable
// application configuration injected into every handler context.
type Server[V any] struct {
	cfg    V
	pool   *sql.DB
	logs   *zap.Logger
	tracer trace.Tracer

	routes  routeTable[V]
	cors    CORS
	postfix func(*Response) *Response

	readTimeout time.Duration
	maxConns    int

	middlewares struct {
		captured bool
		buffered []Middleware[V]
	}

	mu      sync.Mutex
	ln      net.Listener
	started bool
	conns   sync.WaitGroup
}

// Option configures a Server.
type Option[V any] func(*Server[V])

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger[V any](logs *zap.Logger) Option[V] {
	return func(s *Server[V]) { s.logs = logs }
}

// WithTracerProvider enables a dispatch span per request.
func WithTracerProvider[V any](tp trace.TracerProvider) Option[V] {
	return func(s *Server[V]) { s.tracer = tp.Tracer("bserve") }
}

// WithReadTimeout bounds request framing: the deadline covers the header
// scan and the declared-length body read, so a stalled client or a body
// shorter than its Content-Length cannot occupy a connection forever.
func WithReadTimeout[V any](d time.Duration) Option[V] {
	return func(s *Server[V]) { s.readTimeout = d }
}

// WithMaxConns caps the number of concurrently served connections.
func WithMaxConns[V any](n int) Option[V] {
	return func(s *Server[V]) { s.maxConns = n }
}

// WithPostfix sets a hook applied to every outgoing response, useful for
// setting server-wide headers.
func WithPostfix[V any](f func(*Response) *Response) Option[V] {
	return func(s *Server[V]) { s.postfix = f }
}

// DefaultReadTimeout bounds request framing unless overridden.
const DefaultReadTimeout = 10 * time.Second

// New creates a server with the given shared configuration and connection
// pool. The pool may be nil, in which case handlers receive a nil DB.
func New[V any](cfg V, pool *sql.DB, opts ...Option[V]) *Server[V] {
	s := &Server[V]{
		cfg:         cfg,
		pool:        pool,
		logs:        zap.NewNop(),
		readTimeout: DefaultReadTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Use registers middleware applied to every subsequently registered handler.
func (s *Server[V]) Use(mw ...Middleware[V]) {
	if s.middlewares.captured {
		panic("bserve: cannot call Use() after registering routes")
	}

	s.middlewares.buffered = append(s.middlewares.buffered, mw...)
}

// RegisterFunc registers a handler function for the given method and path.
func (s *Server[V]) RegisterFunc(method Method, path string, h HandlerFunc[V]) {
	s.Register(method, path, h)
}

// Register registers a handler for the given method and path. The path is
// normalized with the same rules applied at request framing, so registration
// of "/users/" and a request for "/users" match. Registration must complete
// before the server starts accepting connections.
func (s *Server[V]) Register(method Method, path string, h Handler[V]) {
	s.ensureNotStarted()
	s.middlewares.captured = true

	s.routes.add(Route[V]{
		Path:    path,
		Method:  method,
		Handler: Wrap(h, s.middlewares.buffered...),
	})
}

// Mount registers every route of a [Module] under the given path prefix.
func (s *Server[V]) Mount(prefix string, mod Module[V]) {
	s.ensureNotStarted()
	s.middlewares.captured = true

	block := &Block[V]{prefix: NormalizePath(prefix)}
	mod.Mount(block)

	for _, r := range block.routes {
		r.Handler = Wrap(r.Handler, s.middlewares.buffered...)
		s.routes.add(r)
	}
}

// SetCORS configures the allow-origin and allow-headers lists appended to
// every response.
func (s *Server[V]) SetCORS(origin, headers string) {
	s.cors = CORS{Origin: origin, Headers: headers}
}

// ListenAndServe listens on the given TCP address and serves until ctx is
// canceled or the listener fails.
func (s *Server[V]) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}

	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on the given listener. The route table is
// prepped exactly once before the first accept; every accepted connection is
// served on its own goroutine. Serve returns nil after Shutdown or context
// cancellation closes the listener.
func (s *Server[V]) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	s.routes.prep()
	s.started = true

	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	s.ln = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.logs.Info("accepting connections", zap.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			return errors.Wrap(err, "accept")
		}

		s.conns.Add(1)

		go s.handleConn(ctx, conn)
	}
}

// Shutdown closes the listener and waits for in-flight connections to finish
// or the context to expire.
func (s *Server[V]) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for connections")
	}
}

// handleConn serves a single connection: frame, dispatch, write, close.
func (s *Server[V]) handleConn(ctx context.Context, conn net.Conn) {
	defer s.conns.Done()
	defer conn.Close()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(now().Add(s.readTimeout))
	}

	req, err := ReadRequest(bufio.NewReader(conn), conn.RemoteAddr().String())
	if err != nil {
		s.logs.Debug("request framing failed",
			zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))

		resp := errorResponse(BadRequest("malformed request"))
		resp.applyCORS(s.cors)
		s.write(conn, resp)

		return
	}

	resp := s.dispatch(ctx, req)
	s.write(conn, resp)
}

// dispatch resolves a framed request to response bytes: the CORS preflight
// short-circuit, route lookup with wildcard fallback, pool acquisition,
// handler invocation and error mapping.
func (s *Server[V]) dispatch(ctx context.Context, req *Request) *Response {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "dispatch", trace.WithAttributes(
			attribute.String("http.method", req.Method.String()),
			attribute.String("http.path", req.Path),
		))
		defer span.End()
	}

	resp := s.respond(ctx, req)

	resp.applyCORS(s.cors)

	if s.postfix != nil {
		resp = s.postfix(resp)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("http.status", resp.Status().Code()))
		if resp.Status() >= 500 {
			span.SetStatus(codes.Error, resp.Status().Reason())
		}
	}

	return resp
}

func (s *Server[V]) respond(ctx context.Context, req *Request) *Response {
	// Every OPTIONS request is answered directly with an empty response so
	// CORS preflight never depends on registered routes.
	if req.Method == Options {
		return NewResponse()
	}

	handler, ok := s.routes.lookup(req.Method, req.Path)
	if !ok {
		handler = s.notFoundHandler()
	}

	hctx := Context[V]{Context: ctx, Config: s.cfg}

	if s.pool != nil {
		conn, err := s.pool.Conn(ctx)
		if err != nil {
			s.logs.Error("pool acquisition failed", zap.Error(err))
			return errorResponse(ServerError("database unavailable"))
		}
		defer conn.Close()

		hctx.DB = conn
	}

	resp, err := handler.Serve(hctx, req)
	if err != nil {
		return s.mapError(req, err)
	}

	return resp
}

// mapError converts a surfaced handler error into a response. Typed retrieval
// failures become 400s; unrecognized errors are logged and become generic
// 500s so internals never leak to clients.
func (s *Server[V]) mapError(req *Request, err error) *Response {
	var parseErr *bjson.ParseError
	if errors.As(err, &parseErr) {
		return errorResponse(BadRequest(parseErr.Error()))
	}

	if _, ok := asError(err); !ok {
		s.logs.Error("unhandled handler error",
			zap.String("method", req.Method.String()),
			zap.String("path", req.Path),
			zap.Error(err))
	}

	return errorResponse(err)
}

func (s *Server[V]) ensureNotStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		panic("bserve: cannot register routes after the server started")
	}
}

func (s *Server[V]) notFoundHandler() Handler[V] {
	return HandlerFunc[V](func(Context[V], *Request) (*Response, error) {
		return nil, NotFound("no matching route")
	})
}

func (s *Server[V]) write(conn net.Conn, resp *Response) {
	if err := writeFull(conn, resp.encode()); err != nil {
		s.logs.Debug("response write failed",
			zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
	}
}

// writeFull writes the buffer in a retry loop, re-attempting the unsent
// remainder until fully flushed or an I/O error terminates the loop. No
// partial write is silently dropped.
func writeFull(conn net.Conn, buf []byte) error {
	for len(buf) > 0 {
		n, err := conn.Write(buf)
		if err != nil {
			return errors.Wrap(err, "write response")
		}

		buf = buf[n:]
	}

	return nil
}
