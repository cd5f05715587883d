package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/authgate/internal/authgate/store"
)

// storeTx adapts *sql.Tx to the store.Tx interface. Nested transactions are
// not supported.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Accounts() store.Accounts { return &accountsRepo{q: t.tx} }

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

func (t *storeTx) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *storeTx) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) Close() error { return t.tx.Rollback() }

func (t *storeTx) Ping(ctx context.Context) error { return nil }
