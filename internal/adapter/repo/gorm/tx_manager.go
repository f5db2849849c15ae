package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx opens a transaction, or a savepoint when ctx already carries one,
// so use cases can call each other inside a single unit of work.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if outer, ok := txFromCtx(ctx); ok {
		return outer.Transaction(func(tx *gorm.DB) error {
			return fn(withTx(ctx, tx))
		})
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
