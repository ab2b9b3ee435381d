package repository_test

import (
	"context"
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepoAggregates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewReportRepo(db)
	ctx := context.Background()

	cashier := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	widget := testutil.CreateProduct(t, db, "A1", "Widget", 10, 50)
	gadget := testutil.CreateProduct(t, db, "B1", "Gadget", 2.5, 50)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	testutil.CreateSale(t, db, cashier, day.Add(9*time.Hour),
		testutil.Line{Product: widget, Quantity: 1},
		testutil.Line{Product: gadget, Quantity: 4})
	testutil.CreateSale(t, db, cashier, day.Add(15*time.Hour), testutil.Line{Product: widget, Quantity: 2})
	testutil.CreateSale(t, db, cashier, day.AddDate(0, 0, 1).Add(time.Hour), testutil.Line{Product: gadget, Quantity: 10})

	sales, err := repo.SalesBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.True(t, sales[0].CreatedAt.After(sales[1].CreatedAt))
	require.Len(t, sales[1].Lines, 2)

	products, err := repo.ProductSalesBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B1", products[0].Code)
	assert.Equal(t, int64(4), products[0].QuantitySold)
	assert.Equal(t, "10.00", products[0].TotalSold.StringFixed(2))
	assert.Equal(t, "A1", products[1].Code)
	assert.Equal(t, int64(3), products[1].QuantitySold)
	assert.Equal(t, "30.00", products[1].TotalSold.StringFixed(2))

	ranged, err := repo.RangeProductSales(ctx, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "B1", ranged[0].Code)
	assert.Equal(t, int64(14), ranged[0].QuantitySold)
	assert.Equal(t, "2.50", ranged[0].AveragePrice.StringFixed(2))

	top, err := repo.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, gadget.ID, top[0].ID)
	assert.Equal(t, int64(14), top[0].TotalSold)
	assert.Equal(t, int64(2), top[0].TimesSold)
	assert.Equal(t, "35.00", top[0].Revenue.StringFixed(2))
}

func TestInventorySummary(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewReportRepo(db)

	testutil.CreateProduct(t, db, "A1", "Widget", 10.5, 2)
	testutil.CreateProduct(t, db, "B1", "Gadget", 1.25, 3)
	testutil.CreateProduct(t, db, "C1", "Cable", 4, 40)

	summary, err := repo.InventorySummary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.Equal(t, int64(45), summary.TotalUnits)
	assert.Equal(t, int64(2), summary.LowStockCount)
	assert.Equal(t, 3, summary.Threshold)
	assert.Equal(t, "184.75", summary.Valuation.StringFixed(2))
}

func TestInventorySummaryEmptyCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	summary, err := repository.NewReportRepo(db).InventorySummary(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProducts)
	assert.True(t, summary.Valuation.IsZero())
}
