package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Money formats d the way the receipts show it: $1.234,50
func Money(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "," + frac
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SaleTicket renders a narrow receipt for one sale.
func SaleTicket(w io.Writer, sale *model.SaleResponse, loc *time.Location) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 226.77, Ht: 841.89},
	})
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	const width = 186.77
	rule := func() {
		y := pdf.GetY() + 4
		pdf.Line(20, y, 206, y)
		pdf.SetY(y + 6)
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(width, 18, "TICKET DE VENTA", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(width, 12, "Sistema de Inventario", "", 1, "C", false, 0, "")
	rule()

	pdf.CellFormat(width, 12, tr("Ticket: "+sale.TransactionNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(width, 12, tr("Fecha: "+sale.CreatedAt.In(loc).Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(width, 12, tr("Cajero: "+sale.CashierUsername), "", 1, "L", false, 0, "")
	rule()

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(80, 12, "PRODUCTO", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 12, "CANT", "", 0, "C", false, 0, "")
	pdf.CellFormat(40, 12, "PRECIO", "", 0, "R", false, 0, "")
	pdf.CellFormat(41.77, 12, "TOTAL", "", 1, "R", false, 0, "")
	rule()

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range sale.Lines {
		pdf.CellFormat(80, 12, tr(truncate(l.ProductName, 18)), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 12, fmt.Sprint(l.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(40, 12, Money(l.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(41.77, 12, Money(l.Subtotal), "", 1, "R", false, 0, "")
	}
	rule()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(90, 16, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(96.77, 16, Money(sale.Total), "", 1, "R", false, 0, "")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(width, 12, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// DailyReportPDF renders the daily report with a summary, the per-product
// table and the list of transactions.
func DailyReportPDF(w io.Writer, r *model.DailyReport, loc *time.Location, generated time.Time) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(50, 50, 50)
	pdf.SetAutoPageBreak(true, 60)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	footer := fmt.Sprintf("Generado: %s", generated.In(loc).Format("02/01/2006 15:04"))
	pdf.SetFooterFunc(func() {
		pdf.SetY(-40)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s | Página %d de {nb}", footer, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	rule := func() {
		y := pdf.GetY() + 2
		pdf.Line(50, y, 562, y)
		pdf.SetY(y + 4)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 24, "REPORTE DE VENTAS DIARIO", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 16, "Fecha: "+r.Date, "", 1, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 18, tr("RESUMEN DEL DÍA"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 14, fmt.Sprintf("Total de Transacciones: %d", r.Summary.Transactions), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 14, "Ingresos Totales: "+Money(r.Summary.Revenue), "", 1, "L", false, 0, "")
	pdf.Ln(18)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 18, "PRODUCTOS VENDIDOS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	cols := []float64{90, 140, 80, 100, 102}
	for i, h := range []string{"Código", "Producto", "Cantidad", "P. Unitario", "Total"} {
		pdf.CellFormat(cols[i], 14, tr(h), "", 0, "L", false, 0, "")
	}
	pdf.Ln(14)
	rule()

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range r.Products {
		pdf.CellFormat(cols[0], 13, tr(p.Code), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 13, tr(truncate(p.Name, 18)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 13, fmt.Sprint(p.QuantitySold), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 13, Money(p.UnitPrice), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4], 13, Money(p.TotalSold), "", 1, "L", false, 0, "")
	}
	pdf.Ln(18)

	if len(r.Sales) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 18, "DETALLE DE TRANSACCIONES", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(190, 14, tr("No. Transacción"), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 14, "Hora", "", 0, "L", false, 0, "")
		pdf.CellFormat(110, 14, "Cajero", "", 0, "L", false, 0, "")
		pdf.CellFormat(122, 14, "Total", "", 1, "R", false, 0, "")
		rule()

		pdf.SetFont("Helvetica", "", 9)
		for _, s := range r.Sales {
			pdf.CellFormat(190, 13, s.TransactionNumber, "", 0, "L", false, 0, "")
			pdf.CellFormat(90, 13, s.CreatedAt.In(loc).Format("15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(110, 13, tr(s.Cashier), "", 0, "L", false, 0, "")
			pdf.CellFormat(122, 13, Money(s.Total), "", 1, "R", false, 0, "")
		}
	}

	return pdf.Output(w)
}
