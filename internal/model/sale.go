package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionPrefix starts every human-readable sale number.
const TransactionPrefix = "VT-"

// FormatTransactionNumber encodes a sale id as VT-0001.
func FormatTransactionNumber(id uint) string {
	return fmt.Sprintf("%s%04d", TransactionPrefix, id)
}

// ParseTransactionNumber is the inverse of FormatTransactionNumber.
func ParseTransactionNumber(number string) (uint, error) {
	digits, ok := strings.CutPrefix(number, TransactionPrefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("invalid transaction number %q", number)
	}
	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid transaction number %q", number)
	}
	return uint(id), nil
}

// Sale is the header of a committed sale. It is immutable once the
// transaction number has been assigned.
type Sale struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	TransactionNumber string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"numero_transaccion"`
	CashierID         uint            `gorm:"not null;index" json:"usuario_id"`
	Cashier           *User           `gorm:"foreignKey:CashierID" json:"-"`
	Total             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedAt         time.Time       `gorm:"index" json:"fecha"`
	Lines             []SaleLine      `gorm:"foreignKey:SaleID" json:"-"`
}

// SaleLine captures one product of a sale at the price it had when sold.
type SaleLine struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	SaleID    uint            `gorm:"not null;index" json:"-"`
	ProductID uint            `gorm:"not null;index" json:"producto_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"cantidad"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"precio_unitario"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

// SaleInput is the body of POST /ventas.
type SaleInput struct {
	Lines []SaleLineInput `json:"productos"`
}

// SaleLineInput is one cart entry. Fields are untyped until validated.
type SaleLineInput struct {
	ProductID any `json:"producto_id"`
	Quantity  any `json:"cantidad"`
}

// SaleLineResponse is a line item joined with its product name.
type SaleLineResponse struct {
	ProductID   uint            `json:"producto_id"`
	ProductName string          `json:"nombre"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse is the fully materialized sale returned to clients.
type SaleResponse struct {
	ID                uint               `json:"id"`
	TransactionNumber string             `json:"numero_transaccion"`
	CashierID         uint               `json:"usuario_id"`
	CashierUsername   string             `json:"username"`
	Total             decimal.Decimal    `json:"total"`
	CreatedAt         time.Time          `json:"fecha"`
	Lines             []SaleLineResponse `json:"productos"`
}

// ToResponse converts a preloaded Sale into its API shape.
func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:                s.ID,
		TransactionNumber: s.TransactionNumber,
		CashierID:         s.CashierID,
		Total:             s.Total,
		CreatedAt:         s.CreatedAt,
		Lines:             make([]SaleLineResponse, 0, len(s.Lines)),
	}
	if s.Cashier != nil {
		resp.CashierUsername = s.Cashier.Username
	}
	for _, l := range s.Lines {
		line := SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
		if l.Product != nil {
			line.ProductName = l.Product.Name
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

// SaleFilter narrows GET /ventas.
type SaleFilter struct {
	Page  int        `validate:"gte=1"`
	Limit int        `validate:"gte=1,lte=100"`
	From  *time.Time `validate:"-"`
	To    *time.Time `validate:"-"`
}
