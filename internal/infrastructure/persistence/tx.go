package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor implements shared.Transactor. Nested calls join the
// outer transaction.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTx runs fn in a transaction carried by the context
func (t *GormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withinTx(ctx, t.db, fn)
}

func withinTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction of ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
