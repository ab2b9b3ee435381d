package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	// Transaction-scoped writes used while a sale is being committed.
	CreateHeader(tx *gorm.DB, sale *model.Sale) error
	SetTransactionNumber(tx *gorm.DB, id uint, number string) error
	CreateLines(tx *gorm.DB, lines []model.SaleLine) error

	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	FindAll(ctx context.Context, filter model.SaleFilter) ([]model.Sale, int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) CreateHeader(tx *gorm.DB, sale *model.Sale) error {
	return tx.Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepo) SetTransactionNumber(tx *gorm.DB, id uint, number string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("transaction_number", number).Error
}

func (r *saleRepo) CreateLines(tx *gorm.DB, lines []model.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&lines).Error
}

func preloadSale(db *gorm.DB) *gorm.DB {
	return db.Preload("Cashier").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sale_lines.id ASC") }).
		Preload("Lines.Product")
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := preloadSale(r.db.WithContext(ctx)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func saleRange(filter model.SaleFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.From != nil {
			db = db.Where("created_at >= ?", filter.From.UTC())
		}
		if filter.To != nil {
			db = db.Where("created_at < ?", filter.To.UTC())
		}
		return db
	}
}

// FindAll pages through sales newest first. From is inclusive, To exclusive.
func (r *saleRepo) FindAll(ctx context.Context, filter model.SaleFilter) ([]model.Sale, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Sale{}).Scopes(saleRange(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sales := []model.Sale{}
	err := preloadSale(db).
		Scopes(saleRange(filter)).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
