package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go out as JSON numbers, as the web client expects.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"codigo"`
	Name           string          `gorm:"type:varchar(255);not null" json:"nombre"`
	Description    *string         `gorm:"type:text" json:"descripcion"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"precio_unitario"`
	QuantityOnHand int             `gorm:"not null" json:"cantidad"`
	CreatedAt      time.Time       `json:"creado_en"`
	UpdatedAt      time.Time       `json:"actualizado_en"`
}

// ProductInput is the body of POST/PUT /productos. Numeric fields stay untyped
// until validation so a string price is reported as an invalid price rather
// than a malformed body.
type ProductInput struct {
	Code        *string `json:"codigo"`
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	UnitPrice   any     `json:"precio_unitario"`
	Quantity    any     `json:"cantidad"`
}

// Empty reports whether no field was provided.
func (in ProductInput) Empty() bool {
	return isBlank(in.Code) && isBlank(in.Name) && in.Description == nil &&
		in.UnitPrice == nil && in.Quantity == nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
