package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/pkg/config"
)

const connectAttempts = 3

// NewPool abre el pool, registra el codec NUMERIC <-> decimal.Decimal y verifica la conexión.
// Reintenta el ping con espera creciente (el contenedor de la base suele arrancar después).
func NewPool(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && cfg.MinConns <= cfg.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnIdleTime = 15 * time.Minute
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pc.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   queryLogger(log.With().Str("component", "postgres").Logger()),
		LogLevel: tracelog.LogLevelWarn,
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	wait := 500 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}
		if attempt == connectAttempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("PostgreSQL no responde")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	pool.Close()
	return nil, fmt.Errorf("ping DB: %w", err)
}

// queryLogger adapta tracelog al logger de la app; solo llegan avisos y errores de consultas.
func queryLogger(log zerolog.Logger) tracelog.LoggerFunc {
	return func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var ev *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			ev = log.Error()
		case tracelog.LogLevelWarn:
			ev = log.Warn()
		default:
			ev = log.Debug()
		}
		if sql, ok := data["sql"].(string); ok {
			ev = ev.Str("sql", sql)
		}
		if err, ok := data["err"].(error); ok {
			ev = ev.Err(err)
		}
		if d, ok := data["time"].(time.Duration); ok {
			ev = ev.Dur("elapsed", d)
		}
		ev.Msg(msg)
	}
}
