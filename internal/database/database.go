package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	go_ora "github.com/sijms/go-ora/v2"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/MrJamesThe3rd/reconciler/internal/config"
)

var sqlOpen = sql.Open

// Pool sizes a connection pool shared by every lookup worker.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// PoolFrom sizes a pool from engine_pool_size and engine_max_overflow.
func PoolFrom(s config.Settings) Pool {
	return Pool{
		MaxOpen:     s.MaxOpenConns(),
		MaxIdle:     s.EnginePoolSize,
		MaxLifetime: 5 * time.Minute,
	}
}

// BillerDSN builds a pgx connection string that pins search_path to the configured schema.
func BillerDSN(c config.Database) (string, error) {
	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("invalid biller config: host, user and name are required")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   c.Name,
		User:   url.UserPassword(c.User, c.Password),
	}

	q := u.Query()
	q.Set("sslmode", "disable")

	if c.Schema != "" {
		q.Set("search_path", c.Schema)
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

// JanoDSN builds a go-ora connection URL; Name is the Oracle service name.
func JanoDSN(c config.Database) (string, error) {
	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("invalid jano config: host, user and name are required")
	}

	return go_ora.BuildUrl(c.Host, c.Port, c.Name, c.User, c.Password, nil), nil
}

// NewBiller opens the billing ledger (PostgreSQL).
func NewBiller(ctx context.Context, c config.Database, pool Pool) (*sql.DB, error) {
	dsn, err := BillerDSN(c)
	if err != nil {
		return nil, err
	}

	return open(ctx, "pgx", dsn, pool, semconv.DBSystemPostgreSQL)
}

// NewJano opens the partner ledger (Oracle).
func NewJano(ctx context.Context, c config.Database, pool Pool) (*sql.DB, error) {
	dsn, err := JanoDSN(c)
	if err != nil {
		return nil, err
	}

	return open(ctx, "oracle", dsn, pool, semconv.DBSystemOracle)
}

func open(ctx context.Context, driver, dsn string, pool Pool, system attribute.KeyValue) (*sql.DB, error) {
	driverName, err := otelsql.Register(driver,
		otelsql.WithAttributes(system),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("registering otelsql for %s: %w", driver, err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}

	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}

	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
