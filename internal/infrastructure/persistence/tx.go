package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/dormbill/backend/internal/domain/shared"
)

type txKey struct{}

// GormTransactionManager runs a unit of work inside a database transaction.
// The transactional handle travels in the context so repositories join the
// same transaction without changing their signatures.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager over the given connection
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction executes fn inside a transaction, committing on nil
// and rolling back on error or panic.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transactional handle when one is active,
// otherwise the repository's own connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
