// Package render turns reports and sales into downloadable CSV and PDF files.
package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"go-inventory-pos/internal/model"
)

// utf8BOM lets spreadsheet software detect the encoding.
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"No.Transacción",
	"Fecha",
	"Cajero",
	"Producto",
	"Cantidad",
	"Precio Unitario",
	"Subtotal",
	"Total Venta",
}

// DailyCSV writes rows as a BOM-prefixed UTF-8 CSV document.
func DailyCSV(w io.Writer, rows []model.CSVRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.TransactionNumber,
			r.CreatedAt.Format("02/01/2006 15:04"),
			r.Cashier,
			r.Product,
			strconv.Itoa(r.Quantity),
			r.UnitPrice.StringFixed(2),
			r.Subtotal.StringFixed(2),
			r.SaleTotal.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
