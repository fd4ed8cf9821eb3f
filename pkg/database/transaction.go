package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"

	"github.com/Ramsey-B/fern/pkg/metrics"
)

type TxContextKey string

const txKey = TxContextKey("tx-context-key")

type Tx interface {
	Querier
	IsOpen() bool
	// IsOwner reports whether this handle began the transaction. Only the
	// owner's Commit and Rollback reach the database.
	IsOwner() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	DriverName() string
	Rebind(query string) string
}

// Transaction wraps sqlx.Tx, tracks whether it has been closed and reports
// transactions that stay open past the leak threshold.
type Transaction struct {
	*sqlx.Tx
	logger    ectologger.Logger
	isClosed  bool
	startedAt time.Time
	leakTimer *time.Timer
}

func NewTx(ctx context.Context, tx *sqlx.Tx, logger ectologger.Logger, leakThreshold time.Duration) *Transaction {
	t := &Transaction{
		Tx:        tx,
		logger:    logger,
		startedAt: time.Now(),
	}
	if leakThreshold > 0 {
		t.leakTimer = time.AfterFunc(leakThreshold, func() {
			metrics.TxLeakWarningsTotal.Inc()
			logger.WithContext(ctx).WithFields(map[string]any{
				"threshold": leakThreshold.String(),
				"open_for":  time.Since(t.startedAt).String(),
			}).Warn("Transaction held past threshold, probable connection leak")
		})
	}
	return t
}

// GetTx returns the transaction already carried by ctx, or begins a new one
// and stores it in the returned context. A joined transaction cannot commit
// or roll back on behalf of its owner.
func GetTx(ctx context.Context, logger ectologger.Logger, db DB, opts *sql.TxOptions, leakThreshold time.Duration) (context.Context, Tx, error) {
	if ctxTx, ok := ctx.Value(txKey).(Tx); ok && ctxTx != nil && ctxTx.IsOpen() {
		return ctx, &joinedTx{Tx: ctxTx}, nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("error while beginning transaction: %w", err)
	}

	newTx := NewTx(ctx, tx, logger, leakThreshold)
	ctx = context.WithValue(ctx, txKey, Tx(newTx))
	return ctx, newTx, nil
}

func (t *Transaction) IsOpen() bool {
	return !t.isClosed
}

func (t *Transaction) IsOwner() bool {
	return true
}

// Rollback is safe to defer: it does nothing once the transaction has been
// committed or rolled back.
func (t *Transaction) Rollback(ctx context.Context) error {
	if t.isClosed {
		return nil
	}
	t.close()

	if err := t.Tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("error while rolling back transaction: %w", err)
	}
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if t.isClosed {
		return nil
	}
	t.close()

	if err := t.Tx.Commit(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("error while committing transaction: %w", err)
	}
	return nil
}

func (t *Transaction) close() {
	t.isClosed = true
	if t.leakTimer != nil {
		t.leakTimer.Stop()
	}
}

type joinedTx struct {
	Tx
}

func (j *joinedTx) IsOwner() bool { return false }

func (j *joinedTx) Commit(context.Context) error { return nil }

func (j *joinedTx) Rollback(context.Context) error { return nil }
