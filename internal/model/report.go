package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary totals one day of sales.
type DailySummary struct {
	Transactions int64           `json:"total_transacciones"`
	Revenue      decimal.Decimal `json:"ingresos_totales"`
}

// ProductSales is one row of the per-product breakdown of a day.
type ProductSales struct {
	ID           uint            `json:"id" gorm:"column:id"`
	Code         string          `json:"codigo" gorm:"column:code"`
	Name         string          `json:"nombre" gorm:"column:name"`
	QuantitySold int64           `json:"cantidad_vendida" gorm:"column:quantity_sold"`
	UnitPrice    decimal.Decimal `json:"precio_unitario" gorm:"column:unit_price"`
	TotalSold    decimal.Decimal `json:"total_vendido" gorm:"column:total_sold"`
}

// ReportLine is a line item as shown inside a report.
type ReportLine struct {
	Product   string          `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ReportSale is one transaction of a daily report.
type ReportSale struct {
	ID                uint            `json:"id"`
	TransactionNumber string          `json:"numero_transaccion"`
	CreatedAt         time.Time       `json:"fecha"`
	Total             decimal.Decimal `json:"total"`
	Cashier           string          `json:"cajero"`
	Lines             []ReportLine    `json:"productos"`
}

// DailyReport is the JSON daily sales report.
type DailyReport struct {
	Date     string         `json:"fecha"`
	Summary  DailySummary   `json:"resumen"`
	Products []ProductSales `json:"productos_vendidos"`
	Sales    []ReportSale   `json:"detalle_ventas"`
}

// CSVRow is one exported line of the daily CSV (one row per sale line).
type CSVRow struct {
	TransactionNumber string
	CreatedAt         time.Time
	Cashier           string
	Product           string
	Quantity          int
	UnitPrice         decimal.Decimal
	Subtotal          decimal.Decimal
	SaleTotal         decimal.Decimal
}

// DateRange echoes the requested range.
type DateRange struct {
	Start string `json:"fecha_inicio"`
	End   string `json:"fecha_fin"`
}

// RangeSummary totals a date range.
type RangeSummary struct {
	Transactions int64           `json:"total_transacciones"`
	Revenue      decimal.Decimal `json:"ingresos_totales"`
	FirstSale    *string         `json:"primera_venta"`
	LastSale     *string         `json:"ultima_venta"`
}

// RangeProductSales aggregates one product over a range.
type RangeProductSales struct {
	Code         string          `json:"codigo" gorm:"column:code"`
	Name         string          `json:"nombre" gorm:"column:name"`
	QuantitySold int64           `json:"cantidad_vendida" gorm:"column:quantity_sold"`
	AveragePrice decimal.Decimal `json:"precio_promedio" gorm:"column:average_price"`
	TotalSold    decimal.Decimal `json:"total_vendido" gorm:"column:total_sold"`
}

// DaySales is one point of the per-day series.
type DaySales struct {
	Date         string          `json:"fecha"`
	Transactions int64           `json:"transacciones"`
	Revenue      decimal.Decimal `json:"ingresos"`
}

// RangeReport is the JSON range report.
type RangeReport struct {
	Range    DateRange           `json:"rango"`
	Summary  RangeSummary        `json:"resumen"`
	Products []RangeProductSales `json:"productos_vendidos"`
	PerDay   []DaySales          `json:"ventas_por_dia"`
}

// TopProduct ranks a product by all-time quantity sold.
type TopProduct struct {
	ID        uint            `json:"id" gorm:"column:id"`
	Code      string          `json:"codigo" gorm:"column:code"`
	Name      string          `json:"nombre" gorm:"column:name"`
	TotalSold int64           `json:"total_vendido" gorm:"column:total_sold"`
	TimesSold int64           `json:"veces_vendido" gorm:"column:times_sold"`
	Revenue   decimal.Decimal `json:"ingresos_generados" gorm:"column:revenue"`
}

// InventorySummary is the catalog overview: product count, rows at or below
// the low-stock threshold and the value of the stock on hand.
type InventorySummary struct {
	TotalProducts int64           `json:"total_productos" gorm:"column:total_products"`
	TotalUnits    int64           `json:"unidades_en_stock" gorm:"column:total_units"`
	LowStockCount int64           `json:"productos_stock_bajo" gorm:"column:low_stock_count"`
	Threshold     int             `json:"umbral_stock_bajo" gorm:"-"`
	Valuation     decimal.Decimal `json:"valor_inventario" gorm:"column:valuation"`
}
