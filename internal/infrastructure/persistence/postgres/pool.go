package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// ConnectTimeout bounds establishing a new server connection; AcquireTimeout bounds
// waiting for a pooled one.
const (
	ConnectTimeout = 2 * time.Second
	AcquireTimeout = 2 * time.Second
)

// PoolProfile is the pool sizing for a deployment profile.
type PoolProfile struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	LogLevel        tracelog.LogLevel
}

// ProfileFor returns the development profile (small, no warm connections, query logging)
// or the production profile (larger, warm minimum, errors only).
func ProfileFor(production bool) PoolProfile {
	if production {
		return PoolProfile{MaxConns: 20, MinConns: 2, MaxConnIdleTime: 30 * time.Second, LogLevel: tracelog.LogLevelError}
	}
	return PoolProfile{MaxConns: 5, MinConns: 0, MaxConnIdleTime: 10 * time.Second, LogLevel: tracelog.LogLevelDebug}
}

// PoolConfig builds the pgxpool config for url under profile p.
func PoolConfig(url string, p PoolProfile, log zerolog.Logger) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.MaxConns = p.MaxConns
	cfg.MinConns = p.MinConns
	cfg.MaxConnIdleTime = p.MaxConnIdleTime
	cfg.ConnConfig.ConnectTimeout = ConnectTimeout
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   queryLogger(log),
		LogLevel: p.LogLevel,
	}
	return cfg, nil
}

// NewPool creates the process-wide pool. Call once at startup and share the result.
func NewPool(ctx context.Context, url string, production bool, log zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := PoolConfig(url, ProfileFor(production), log)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

func queryLogger(log zerolog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var ev *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			ev = log.Error()
		case tracelog.LogLevelWarn:
			ev = log.Warn()
		case tracelog.LogLevelInfo:
			ev = log.Info()
		default:
			ev = log.Debug()
		}
		ev.Fields(data).Str("component", "pgx").Msg(msg)
	})
}
