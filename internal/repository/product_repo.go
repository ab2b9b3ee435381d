package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	CountSaleLines(ctx context.Context, id uint) (int64, error)

	// Transaction-scoped helpers used by sale processing.
	FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error)
	DecrementStock(tx *gorm.DB, id uint, quantity int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).Select("code", "name", "description", "unit_price", "quantity_on_hand", "updated_at").
		Updates(product).Error
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CountSaleLines(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleLine{}).Where("product_id = ?", id).Count(&n).Error
	return n, err
}

// FindForUpdate reads a product and holds its row lock until tx ends.
func (r *productRepo) FindForUpdate(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts quantity only while enough stock remains. It
// reports false when no row was changed.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uint, quantity int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity_on_hand >= ?", id, quantity).
		Updates(map[string]interface{}{
			"quantity_on_hand": gorm.Expr("quantity_on_hand - ?", quantity),
			"updated_at":       tx.NowFunc(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
