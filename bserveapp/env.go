package bserveapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must
// implement. Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	logLevel() zapcore.Level
	corsOrigin() string
	corsHeaders() string
	databaseDSN() string
	readTimeout() time.Duration
	maxConns() int
}

// BaseEnvironment contains the required environment variables. Embed this
// in your custom environment struct.
type BaseEnvironment struct {
	Port        int           `env:"BSERVE_PORT" envDefault:"8080"`
	ServiceName string        `env:"BSERVE_SERVICE_NAME" envDefault:"bserve"`
	LogLevel    zapcore.Level `env:"BSERVE_LOG_LEVEL" envDefault:"info"`
	CORSOrigin  string        `env:"BSERVE_CORS_ORIGIN" envDefault:"*"`
	CORSHeaders string        `env:"BSERVE_CORS_HEADERS" envDefault:"Origin, X-Requested-With, Content-Type, Accept, Authorization"`
	DatabaseDSN string        `env:"BSERVE_DATABASE_DSN" envDefault:"file::memory:?cache=shared"`
	ReadTimeout time.Duration `env:"BSERVE_READ_TIMEOUT" envDefault:"10s"`
	MaxConns    int           `env:"BSERVE_MAX_CONNS" envDefault:"0"`
}

func (e BaseEnvironment) port() int                  { return e.Port }
func (e BaseEnvironment) serviceName() string        { return e.ServiceName }
func (e BaseEnvironment) logLevel() zapcore.Level    { return e.LogLevel }
func (e BaseEnvironment) corsOrigin() string         { return e.CORSOrigin }
func (e BaseEnvironment) corsHeaders() string        { return e.CORSHeaders }
func (e BaseEnvironment) databaseDSN() string        { return e.DatabaseDSN }
func (e BaseEnvironment) readTimeout() time.Duration { return e.ReadTimeout }
func (e BaseEnvironment) maxConns() int              { return e.MaxConns }

var _ Environment = BaseEnvironment{}

// ParseEnv returns a provider that parses environment variables into E.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		return e, nil
	}
}
