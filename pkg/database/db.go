package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
)

// Querier is the statement surface shared by DB and Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

type DB interface {
	Querier
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Close() error
	DriverName() string
	PingContext(ctx context.Context) error
	Rebind(query string) string
	SetConnMaxLifetime(d time.Duration)
	SetMaxIdleConns(n int)
	SetMaxOpenConns(n int)
	Stats() sql.DBStats
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error)
	Flavor() sqlbuilder.Flavor
}

type DatabaseInstance struct {
	*sqlx.DB
	logger        ectologger.Logger
	leakThreshold time.Duration
}

type Option func(*DatabaseInstance)

// WithLeakThreshold sets how long a transaction may stay open before it is
// reported as a probable connection leak. Zero disables the report.
func WithLeakThreshold(d time.Duration) Option {
	return func(db *DatabaseInstance) {
		db.leakThreshold = d
	}
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger, opts ...Option) DB {
	instance := &DatabaseInstance{
		DB:            db,
		logger:        logger,
		leakThreshold: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(instance)
	}
	return instance
}

func (db *DatabaseInstance) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, Tx, error) {
	return GetTx(ctx, db.logger, db, opts, db.leakThreshold)
}

// Flavor picks the SQL dialect from the driver the pool was opened with.
func (db *DatabaseInstance) Flavor() sqlbuilder.Flavor {
	return FlavorFor(db.DriverName())
}

func FlavorFor(driverName string) sqlbuilder.Flavor {
	switch driverName {
	case "sqlite", "sqlite3":
		return sqlbuilder.SQLite
	case "mysql":
		return sqlbuilder.MySQL
	default:
		return sqlbuilder.PostgreSQL
	}
}

// QuerierFrom returns the transaction carried by ctx when one is open,
// otherwise the pool itself.
func QuerierFrom(ctx context.Context, db DB) Querier {
	if tx, ok := ctx.Value(txKey).(Tx); ok && tx != nil && tx.IsOpen() {
		return tx
	}
	return db
}
