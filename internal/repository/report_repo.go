package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
)

// ReportRepository reads sales history. Every range is half-open: start is
// inclusive and end exclusive.
type ReportRepository interface {
	SalesBetween(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	ProductSalesBetween(ctx context.Context, start, end time.Time) ([]model.ProductSales, error)
	RangeProductSales(ctx context.Context, start, end time.Time) ([]model.RangeProductSales, error)
	TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error)
	InventorySummary(ctx context.Context, lowStock int) (*model.InventorySummary, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// SalesBetween returns fully loaded sales, newest first.
func (r *reportRepo) SalesBetween(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	sales := []model.Sale{}
	err := preloadSale(r.db.WithContext(ctx)).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

// ProductSalesBetween groups sold lines by product and captured price, best
// sellers first.
func (r *reportRepo) ProductSalesBetween(ctx context.Context, start, end time.Time) ([]model.ProductSales, error) {
	rows := []model.ProductSales{}
	err := r.db.WithContext(ctx).Table("sale_lines AS sl").
		Select(`p.id AS id, p.code AS code, p.name AS name,
			SUM(sl.quantity) AS quantity_sold,
			sl.unit_price AS unit_price,
			SUM(sl.subtotal) AS total_sold`).
		Joins("JOIN sales s ON s.id = sl.sale_id").
		Joins("JOIN products p ON p.id = sl.product_id").
		Where("s.created_at >= ? AND s.created_at < ?", start.UTC(), end.UTC()).
		Group("p.id, p.code, p.name, sl.unit_price").
		Order("quantity_sold DESC, p.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RangeProductSales(ctx context.Context, start, end time.Time) ([]model.RangeProductSales, error) {
	rows := []model.RangeProductSales{}
	err := r.db.WithContext(ctx).Table("sale_lines AS sl").
		Select(`p.code AS code, p.name AS name,
			SUM(sl.quantity) AS quantity_sold,
			AVG(sl.unit_price) AS average_price,
			SUM(sl.subtotal) AS total_sold`).
		Joins("JOIN sales s ON s.id = sl.sale_id").
		Joins("JOIN products p ON p.id = sl.product_id").
		Where("s.created_at >= ? AND s.created_at < ?", start.UTC(), end.UTC()).
		Group("p.code, p.name").
		Order("quantity_sold DESC, p.code ASC").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by all-time quantity sold.
func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	rows := []model.TopProduct{}
	err := r.db.WithContext(ctx).Table("sale_lines AS sl").
		Select(`p.id AS id, p.code AS code, p.name AS name,
			SUM(sl.quantity) AS total_sold,
			COUNT(DISTINCT sl.sale_id) AS times_sold,
			SUM(sl.subtotal) AS revenue`).
		Joins("JOIN products p ON p.id = sl.product_id").
		Group("p.id, p.code, p.name").
		Order("total_sold DESC, p.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// InventorySummary counts products, units and stock value. A product is low
// on stock when its quantity is at or below lowStock.
func (r *reportRepo) InventorySummary(ctx context.Context, lowStock int) (*model.InventorySummary, error) {
	var summary model.InventorySummary
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(quantity_on_hand), 0) AS total_units,
			COALESCE(SUM(CASE WHEN quantity_on_hand <= ? THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(quantity_on_hand * unit_price), 0) AS valuation`, lowStock).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	summary.Threshold = lowStock
	summary.Valuation = summary.Valuation.Round(2)
	return &summary, nil
}
