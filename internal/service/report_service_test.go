package service_test

import (
	"context"
	"testing"
	"time"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// bogota has no DST, so day boundaries are a fixed UTC-5 offset.
var bogota = time.FixedZone("COT", -5*60*60)

type reportFixture struct {
	db      *gorm.DB
	reports service.ReportService
	widget  *model.Product
	gadget  *model.Product
}

// newReportFixture seeds three sales. In COT the first two fall on
// 2024-03-10 and the third on 2024-03-12.
func newReportFixture(t *testing.T) reportFixture {
	t.Helper()
	db := testutil.NewDB(t)
	cashier := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	f := reportFixture{
		db:      db,
		reports: service.NewReportService(repository.NewReportRepo(db), bogota),
		widget:  testutil.CreateProduct(t, db, "A1", "Widget", 10, 50),
		gadget:  testutil.CreateProduct(t, db, "B1", "Gadget", 2.5, 50),
	}

	testutil.CreateSale(t, db, cashier, time.Date(2024, 3, 10, 9, 0, 0, 0, bogota),
		testutil.Line{Product: f.widget, Quantity: 1},
		testutil.Line{Product: f.gadget, Quantity: 4})
	// 2024-03-11 03:00 UTC is still the evening of the 10th in COT
	testutil.CreateSale(t, db, cashier, time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC),
		testutil.Line{Product: f.widget, Quantity: 2})
	testutil.CreateSale(t, db, cashier, time.Date(2024, 3, 12, 10, 0, 0, 0, bogota),
		testutil.Line{Product: f.gadget, Quantity: 2})
	return f
}

func TestDailyReport(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.reports.DailyReport(context.Background(), "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", report.Date)
	assert.Equal(t, int64(2), report.Summary.Transactions)
	assert.Equal(t, "40.00", report.Summary.Revenue.StringFixed(2))

	require.Len(t, report.Products, 2)
	assert.Equal(t, "Gadget", report.Products[0].Name)
	assert.Equal(t, int64(4), report.Products[0].QuantitySold)
	assert.Equal(t, "Widget", report.Products[1].Name)
	assert.Equal(t, int64(3), report.Products[1].QuantitySold)

	require.Len(t, report.Sales, 2)
	assert.True(t, report.Sales[0].CreatedAt.After(report.Sales[1].CreatedAt))
	assert.Equal(t, "caja1", report.Sales[0].Cashier)
	assert.Len(t, report.Sales[1].Lines, 2)

	empty, err := f.reports.DailyReport(context.Background(), "2024-03-11")
	require.NoError(t, err)
	assert.Zero(t, empty.Summary.Transactions)
	assert.NotNil(t, empty.Sales)

	_, err = f.reports.DailyReport(context.Background(), "2024-13-01")
	assert.ErrorIs(t, err, apperr.ErrInvalidDate)
}

func TestDailyCSVRows(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	_, err := f.reports.DailyCSV(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrMissingDate)

	_, err = f.reports.DailyCSV(ctx, "2024-03-11")
	assert.ErrorIs(t, err, apperr.ErrNoSalesForDate)
	assert.Equal(t, 404, apperr.Status(err))

	rows, err := f.reports.DailyCSV(ctx, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Widget", rows[0].Product)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, "20.00", rows[0].SaleTotal.StringFixed(2))
	assert.Equal(t, 22, rows[0].CreatedAt.Hour())
	assert.Equal(t, rows[1].TransactionNumber, rows[2].TransactionNumber)
}

func TestRangeReport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	_, err := f.reports.RangeReport(ctx, "2024-03-10", "")
	assert.ErrorIs(t, err, apperr.ErrMissingDates)

	report, err := f.reports.RangeReport(ctx, "2024-03-10", "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", report.Range.Start)
	assert.Equal(t, int64(3), report.Summary.Transactions)
	assert.Equal(t, "45.00", report.Summary.Revenue.StringFixed(2))
	require.NotNil(t, report.Summary.FirstSale)
	require.NotNil(t, report.Summary.LastSale)
	assert.Equal(t, "2024-03-10", *report.Summary.FirstSale)
	assert.Equal(t, "2024-03-12", *report.Summary.LastSale)

	require.Len(t, report.PerDay, 2)
	assert.Equal(t, "2024-03-10", report.PerDay[0].Date)
	assert.Equal(t, int64(2), report.PerDay[0].Transactions)
	assert.Equal(t, "40.00", report.PerDay[0].Revenue.StringFixed(2))
	assert.Equal(t, "2024-03-12", report.PerDay[1].Date)

	require.Len(t, report.Products, 2)
	assert.Equal(t, "B1", report.Products[0].Code)
	assert.Equal(t, int64(6), report.Products[0].QuantitySold)

	none, err := f.reports.RangeReport(ctx, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.Nil(t, none.Summary.FirstSale)
	assert.Empty(t, none.PerDay)
}

func TestTopProductsLimit(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	top, err := f.reports.TopProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "B1", top[0].Code)
	assert.Equal(t, int64(6), top[0].TotalSold)

	top, err = f.reports.TopProducts(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, top, 1)

	for _, bad := range []string{"0", "101", "abc"} {
		_, err = f.reports.TopProducts(ctx, bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidPagination)
	}
}

func TestInventoryThreshold(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	summary, err := f.reports.Inventory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, service.DefaultLowStock, summary.Threshold)
	assert.Equal(t, int64(2), summary.TotalProducts)
	assert.Zero(t, summary.LowStockCount)

	summary, err = f.reports.Inventory(ctx, "50")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.LowStockCount)

	_, err = f.reports.Inventory(ctx, "-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}
