package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mydata-invoicing/pkg/config"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx usado por los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("interpretar DSN: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping a la base de datos: %w", err)
	}
	return pool, nil
}

// schemaTransmissions tabla de auditoría. Idempotente.
const schemaTransmissions = `
CREATE TABLE IF NOT EXISTS mydata_transmissions (
	id             UUID PRIMARY KEY,
	uid            TEXT NOT NULL UNIQUE,
	order_id       TEXT NOT NULL,
	invoice_type   TEXT NOT NULL,
	series         TEXT NOT NULL,
	aa             TEXT NOT NULL,
	issue_date     DATE NOT NULL,
	net_total      NUMERIC(14,2) NOT NULL,
	vat_total      NUMERIC(14,2) NOT NULL,
	gross_total    NUMERIC(14,2) NOT NULL,
	status         TEXT NOT NULL,
	mark           TEXT,
	qr_url         TEXT,
	http_status    INTEGER NOT NULL DEFAULT 0,
	errors         TEXT,
	xml_payload    TEXT NOT NULL,
	payload_digest TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	counterpart_name        TEXT NOT NULL DEFAULT '',
	counterpart_address     TEXT NOT NULL DEFAULT '',
	counterpart_city        TEXT NOT NULL DEFAULT '',
	counterpart_postal_code TEXT NOT NULL DEFAULT ''
);
ALTER TABLE mydata_transmissions
	ADD COLUMN IF NOT EXISTS counterpart_name        TEXT NOT NULL DEFAULT '',
	ADD COLUMN IF NOT EXISTS counterpart_address     TEXT NOT NULL DEFAULT '',
	ADD COLUMN IF NOT EXISTS counterpart_city        TEXT NOT NULL DEFAULT '',
	ADD COLUMN IF NOT EXISTS counterpart_postal_code TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS idx_mydata_transmissions_order ON mydata_transmissions (order_id);
CREATE INDEX IF NOT EXISTS idx_mydata_transmissions_created ON mydata_transmissions (created_at DESC);`

// EnsureSchema crea la tabla mydata_transmissions si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaTransmissions); err != nil {
		return fmt.Errorf("crear esquema mydata_transmissions: %w", err)
	}
	return nil
}
