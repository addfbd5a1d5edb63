package bserveapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bserveapp.BaseEnvironment]
// env vars via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bserveapp.BaseEnvironment] env vars to test defaults.
// Port is required because each test must use a unique port to avoid
// collisions.
//
// Defaults:
//   - BSERVE_SERVICE_NAME: "test"
//   - BSERVE_LOG_LEVEL: "error"
//   - BSERVE_CORS_ORIGIN: "*"
//   - BSERVE_DATABASE_DSN: "file::memory:?cache=shared"
//   - BSERVE_READ_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	bserveapptest.SetBaseEnv(t, 18085).CORSOrigin("https://app.example.com")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Setenv("BSERVE_PORT", strconv.Itoa(port))
	t.Setenv("BSERVE_SERVICE_NAME", "test")
	t.Setenv("BSERVE_LOG_LEVEL", "error")
	t.Setenv("BSERVE_CORS_ORIGIN", "*")
	t.Setenv("BSERVE_DATABASE_DSN", "file::memory:?cache=shared")
	t.Setenv("BSERVE_READ_TIMEOUT", "5s")

	return &Env{t: t}
}

// ServiceName overrides BSERVE_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Setenv("BSERVE_SERVICE_NAME", name)
	return e
}

// LogLevel overrides BSERVE_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Setenv("BSERVE_LOG_LEVEL", level)
	return e
}

// CORSOrigin overrides BSERVE_CORS_ORIGIN.
func (e *Env) CORSOrigin(origin string) *Env {
	e.t.Setenv("BSERVE_CORS_ORIGIN", origin)
	return e
}

// DatabaseDSN overrides BSERVE_DATABASE_DSN.
func (e *Env) DatabaseDSN(dsn string) *Env {
	e.t.Setenv("BSERVE_DATABASE_DSN", dsn)
	return e
}

// MaxConns overrides BSERVE_MAX_CONNS.
func (e *Env) MaxConns(n int) *Env {
	e.t.Setenv("BSERVE_MAX_CONNS", strconv.Itoa(n))
	return e
}
