package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type rowQuerier interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ConnParams identify one MySQL server and schema.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// dsn renders the parameters as a driver DSN. It doubles as the holder key.
func (p ConnParams) dsn() string {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", p.Host, p.Port)
	cfg.DBName = p.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Holder owns at most one connection pool, keyed by the last-seen
// connection parameters. The pool is reused while parameters match and
// replaced when they change. All access is serialized by the mutex; the
// pool itself handles concurrent queries internally.
type Holder struct {
	mu   sync.Mutex
	key  string
	db   *sqlx.DB
	open func(ctx context.Context, dsn string) (*sqlx.DB, error)
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{open: openAndPing}
}

func openAndPing(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Get returns a pool for params, opening one lazily and closing any pool
// held for different parameters.
func (h *Holder) Get(ctx context.Context, params ConnParams) (*sqlx.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.open == nil {
		h.open = openAndPing
	}

	key := params.dsn()
	if h.db != nil && h.key == key {
		return h.db, nil
	}

	if h.db != nil {
		_ = h.db.Close()
		h.db = nil
		h.key = ""
	}

	db, err := h.open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s:%d: %w", params.Host, params.Port, err)
	}

	h.db = db
	h.key = key
	return db, nil
}

// Close releases the held pool, if any. Safe to call multiple times.
func (h *Holder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	h.key = ""
	return err
}

// holds reports whether the holder currently owns a pool for key.
// Used by tests.
func (h *Holder) holds(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db != nil && h.key == key
}
