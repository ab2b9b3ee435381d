package service

import (
	"context"
	"strconv"
	"time"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService aggregates committed sales. Calendar days are taken in the
// configured location.
type ReportService interface {
	DailyReport(ctx context.Context, date string) (*model.DailyReport, error)
	DailyCSV(ctx context.Context, date string) ([]model.CSVRow, error)
	RangeReport(ctx context.Context, startDate, endDate string) (*model.RangeReport, error)
	TopProducts(ctx context.Context, limit string) ([]model.TopProduct, error)
	Inventory(ctx context.Context, threshold string) (*model.InventorySummary, error)
	Location() *time.Location
}

type reportService struct {
	reportRepo repository.ReportRepository
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(rRepo repository.ReportRepository, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{reportRepo: rRepo, loc: loc, now: time.Now}
}

func (s *reportService) Location() *time.Location {
	return s.loc
}

// DailyReport summarizes one day; an empty date means today.
func (s *reportService) DailyReport(ctx context.Context, date string) (*model.DailyReport, error) {
	day := s.now().In(s.loc)
	if date != "" {
		var err error
		if day, err = parseDay(date, s.loc); err != nil {
			return nil, err
		}
	}
	start, end := dayBounds(day)

	sales, err := s.reportRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	products, err := s.reportRepo.ProductSalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &model.DailyReport{
		Date:     start.Format(dayLayout),
		Summary:  model.DailySummary{Transactions: int64(len(sales)), Revenue: decimal.Zero},
		Products: products,
		Sales:    make([]model.ReportSale, 0, len(sales)),
	}
	for _, sale := range sales {
		report.Summary.Revenue = report.Summary.Revenue.Add(sale.Total)
		report.Sales = append(report.Sales, toReportSale(sale, s.loc))
	}
	return report, nil
}

// DailyCSV flattens one explicit day into one row per sold line, newest sale
// first.
func (s *reportService) DailyCSV(ctx context.Context, date string) ([]model.CSVRow, error) {
	if date == "" {
		return nil, apperr.ErrMissingDate
	}
	day, err := parseDay(date, s.loc)
	if err != nil {
		return nil, err
	}
	start, end := dayBounds(day)

	sales, err := s.reportRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var rows []model.CSVRow
	for _, sale := range sales {
		for _, line := range sale.Lines {
			rows = append(rows, model.CSVRow{
				TransactionNumber: sale.TransactionNumber,
				CreatedAt:         sale.CreatedAt.In(s.loc),
				Cashier:           cashierName(sale),
				Product:           productName(line),
				Quantity:          line.Quantity,
				UnitPrice:         line.UnitPrice,
				Subtotal:          line.Subtotal,
				SaleTotal:         sale.Total,
			})
		}
	}
	if len(rows) == 0 {
		return nil, apperr.ErrNoSalesForDate
	}
	return rows, nil
}

// RangeReport covers every day from startDate through endDate inclusive.
func (s *reportService) RangeReport(ctx context.Context, startDate, endDate string) (*model.RangeReport, error) {
	if startDate == "" || endDate == "" {
		return nil, apperr.ErrMissingDates
	}
	first, err := parseDay(startDate, s.loc)
	if err != nil {
		return nil, err
	}
	last, err := parseDay(endDate, s.loc)
	if err != nil {
		return nil, err
	}
	start, _ := dayBounds(first)
	_, end := dayBounds(last)

	sales, err := s.reportRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	products, err := s.reportRepo.RangeProductSales(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &model.RangeReport{
		Range:    model.DateRange{Start: startDate, End: endDate},
		Summary:  model.RangeSummary{Transactions: int64(len(sales)), Revenue: decimal.Zero},
		Products: products,
		PerDay:   []model.DaySales{},
	}

	// sales arrive newest first; walk them oldest first so days come out ascending
	byDay := make(map[string]int)
	for i := len(sales) - 1; i >= 0; i-- {
		sale := sales[i]
		report.Summary.Revenue = report.Summary.Revenue.Add(sale.Total)

		key := sale.CreatedAt.In(s.loc).Format(dayLayout)
		idx, ok := byDay[key]
		if !ok {
			idx = len(report.PerDay)
			byDay[key] = idx
			report.PerDay = append(report.PerDay, model.DaySales{Date: key, Revenue: decimal.Zero})
		}
		report.PerDay[idx].Transactions++
		report.PerDay[idx].Revenue = report.PerDay[idx].Revenue.Add(sale.Total)
	}
	if n := len(report.PerDay); n > 0 {
		firstDay, lastDay := report.PerDay[0].Date, report.PerDay[n-1].Date
		report.Summary.FirstSale = &firstDay
		report.Summary.LastSale = &lastDay
	}
	return report, nil
}

// TopProducts ranks products by quantity sold; limit defaults to 10.
func (s *reportService) TopProducts(ctx context.Context, limit string) ([]model.TopProduct, error) {
	n := 10
	if limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v < 1 || v > 100 {
			return nil, apperr.ErrInvalidPagination
		}
		n = v
	}
	return s.reportRepo.TopProducts(ctx, n)
}

// DefaultLowStock is the threshold used when none is requested.
const DefaultLowStock = 10

// Inventory summarizes the catalog; threshold defaults to DefaultLowStock.
func (s *reportService) Inventory(ctx context.Context, threshold string) (*model.InventorySummary, error) {
	n := DefaultLowStock
	if threshold != "" {
		v, err := strconv.Atoi(threshold)
		if err != nil || v < 0 {
			return nil, apperr.ErrInvalidQuantity
		}
		n = v
	}
	return s.reportRepo.InventorySummary(ctx, n)
}

func toReportSale(sale model.Sale, loc *time.Location) model.ReportSale {
	rs := model.ReportSale{
		ID:                sale.ID,
		TransactionNumber: sale.TransactionNumber,
		CreatedAt:         sale.CreatedAt.In(loc),
		Total:             sale.Total,
		Cashier:           cashierName(sale),
		Lines:             make([]model.ReportLine, 0, len(sale.Lines)),
	}
	for _, line := range sale.Lines {
		rs.Lines = append(rs.Lines, model.ReportLine{
			Product:   productName(line),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return rs
}

func cashierName(sale model.Sale) string {
	if sale.Cashier == nil {
		return ""
	}
	return sale.Cashier.Username
}

func productName(line model.SaleLine) string {
	if line.Product == nil {
		return ""
	}
	return line.Product.Name
}
