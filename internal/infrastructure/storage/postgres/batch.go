package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"librairie/internal/core/apperror"
)

// BatchInserter performs bulk inserts using the COPY protocol. COPY has to
// run on the transaction connection, so callers must be inside
// RunInTransaction.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromRows bulk-inserts rows into table via COPY.
func (b *BatchInserter) CopyFromRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	dbTx := b.txManager.GetTx(ctx)
	if dbTx == nil {
		return 0, apperror.NewInternal(errors.New("batch insert requires an active transaction"))
	}

	count, err := dbTx.CopyFrom(ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return count, nil
}
