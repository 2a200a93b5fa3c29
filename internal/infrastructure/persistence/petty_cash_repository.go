package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var pettyCashList = listQuery{
	searchColumns: []string{"voucher_no", "paid_to", "description"},
	sortFields:    PettyCashSortFields,
	defaultSort:   "voucher_date",
	hasStatus:     true,
}

// GormPettyCashRepository implements PettyCashRepository using GORM
type GormPettyCashRepository struct {
	db *gorm.DB
}

// NewGormPettyCashRepository creates a new GormPettyCashRepository
func NewGormPettyCashRepository(db *gorm.DB) *GormPettyCashRepository {
	return &GormPettyCashRepository{db: db}
}

// FindByID finds a voucher with its lines in line order
func (r *GormPettyCashRepository) FindByID(ctx context.Context, id int64) (*finance.PettyCashVoucher, error) {
	var v finance.PettyCashVoucher
	err := conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&v, "petty_cash_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll finds one page of vouchers without their lines
func (r *GormPettyCashRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.PettyCashVoucher, int64, error) {
	return findPage[finance.PettyCashVoucher](conn(ctx, r.db), pettyCashList, filter)
}

// Save creates or updates the voucher and replaces its lines
func (r *GormPettyCashRepository) Save(ctx context.Context, v *finance.PettyCashVoucher) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Omit(clause.Associations).Save(v).Error; err != nil {
			return err
		}
		if err := db.Where("petty_cash_id = ?", v.PettyCashID).Delete(&finance.PettyCashLine{}).Error; err != nil {
			return err
		}
		if len(v.Lines) == 0 {
			return nil
		}
		for i := range v.Lines {
			v.Lines[i].PettyCashLineID = 0
			v.Lines[i].PettyCashID = v.PettyCashID
		}
		return db.Create(&v.Lines).Error
	})
}

// Delete deletes a voucher and its lines
func (r *GormPettyCashRepository) Delete(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Where("petty_cash_id = ?", id).Delete(&finance.PettyCashLine{}).Error; err != nil {
			return err
		}
		result := db.Delete(&finance.PettyCashVoucher{}, "petty_cash_id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
