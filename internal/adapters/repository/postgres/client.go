package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/vncsmyrnk/contentapi/internal/core/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// Client owns the connection pool shared by every repository. It is built
// once at startup and passed to the repository constructors.
type Client struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: connection string is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	c := NewClient(db, cfg.QueryTimeout)
	if err := c.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func NewClient(db *sql.DB, queryTimeout time.Duration) *Client {
	return &Client{db: db, queryTimeout: queryTimeout}
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.db.PingContext(ctx); err != nil {
		return storeError(fmt.Errorf("failed to ping database: %w", err))
	}
	return nil
}

func (c *Client) Migrate(ctx context.Context) error {
	return c.runMigrations(func(db *sql.DB) error { return goose.UpContext(ctx, db, "migrations") })
}

func (c *Client) MigrateDown(ctx context.Context) error {
	return c.runMigrations(func(db *sql.DB) error { return goose.DownContext(ctx, db, "migrations") })
}

func (c *Client) MigrationStatus(ctx context.Context) error {
	return c.runMigrations(func(db *sql.DB) error { return goose.StatusContext(ctx, db, "migrations") })
}

func (c *Client) runMigrations(run func(*sql.DB) error) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := run(c.db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.queryTimeout)
}

// storeError marks timeouts and connection failures as
// domain.ErrStoreUnavailable so callers can tell them from query bugs.
func storeError(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}

	unavailable := errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone)

	var netErr net.Error
	if errors.As(err, &netErr) {
		unavailable = true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			// connection exception, insufficient resources, operator intervention
			unavailable = true
		}
	}

	if unavailable {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
