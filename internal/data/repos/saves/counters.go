package saves

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// adjustCounter applies an atomic per-row increment/decrement, clamped at
// zero on the way down.
func adjustCounter(ctx context.Context, tx, db *gorm.DB, model any, column string, id uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = db
	}
	if delta >= 0 {
		return transaction.WithContext(ctx).
			Model(model).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	}
	return transaction.WithContext(ctx).
		Model(model).
		Where("id = ? AND "+column+" >= ?", id, -delta).
		UpdateColumn(column, gorm.Expr(column+" - ?", -delta)).Error
}
