package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := map[string]decimal.Decimal{
		"$0,00":         decimal.Zero,
		"$30,00":        decimal.NewFromInt(30),
		"$1.234,50":     decimal.RequireFromString("1234.5"),
		"$1.000.000,00": decimal.NewFromInt(1000000),
		"-$12,30":       decimal.RequireFromString("-12.3"),
	}
	for want, in := range tests {
		assert.Equal(t, want, Money(in), in.String())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Cañón", truncate("Cañón", 10))
	assert.Equal(t, "Cañ", truncate("Cañón", 3))
}

func TestDailyCSV(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 5, 0, 0, time.UTC)
	rows := []model.CSVRow{{
		TransactionNumber: "VT-0007",
		CreatedAt:         at,
		Cashier:           "caja1",
		Product:           "Tornillo, 3mm",
		Quantity:          3,
		UnitPrice:         decimal.RequireFromString("1.5"),
		Subtotal:          decimal.RequireFromString("4.5"),
		SaleTotal:         decimal.RequireFromString("4.5"),
	}}

	var buf bytes.Buffer
	require.NoError(t, DailyCSV(&buf, rows))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"VT-0007", "10/03/2024 14:05", "caja1", "Tornillo, 3mm", "3", "1.50", "4.50", "4.50"}, records[1])
}

func TestSaleTicketIsPDF(t *testing.T) {
	sale := &model.SaleResponse{
		ID:                7,
		TransactionNumber: "VT-0007",
		CashierUsername:   "caja1",
		Total:             decimal.NewFromInt(30),
		CreatedAt:         time.Date(2024, 3, 10, 14, 5, 0, 0, time.UTC),
		Lines: []model.SaleLineResponse{
			{ProductID: 1, ProductName: "Martillo de carpintería con mango largo", Quantity: 3, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(30)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, SaleTicket(&buf, sale, time.UTC))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestDailyReportPDF(t *testing.T) {
	report := &model.DailyReport{
		Date:    "2024-03-10",
		Summary: model.DailySummary{Transactions: 1, Revenue: decimal.NewFromInt(30)},
		Products: []model.ProductSales{
			{ID: 1, Code: "A1", Name: "Widget", QuantitySold: 3, UnitPrice: decimal.NewFromInt(10), TotalSold: decimal.NewFromInt(30)},
		},
		Sales: []model.ReportSale{{
			ID: 7, TransactionNumber: "VT-0007", Cashier: "caja1", Total: decimal.NewFromInt(30),
			CreatedAt: time.Date(2024, 3, 10, 14, 5, 0, 0, time.UTC),
			Lines:     []model.ReportLine{{Product: "Widget", Quantity: 3, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(30)}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, DailyReportPDF(&buf, report, time.UTC, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	var empty bytes.Buffer
	require.NoError(t, DailyReportPDF(&empty, &model.DailyReport{Date: "2024-03-11"}, time.UTC, time.Now()))
	assert.True(t, bytes.HasPrefix(empty.Bytes(), []byte("%PDF")))
}
