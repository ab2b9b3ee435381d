// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. A single connection is
// used so every query sees the same memory store; callers must run all
// statements of an open transaction through the transaction handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	model.PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Config(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user with the given role and password.
func CreateUser(t testing.TB, db *gorm.DB, username, password, role string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Role: role}
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateProduct inserts a product with the given price and stock.
func CreateProduct(t testing.TB, db *gorm.DB, code, name string, price float64, qty int) *model.Product {
	t.Helper()
	p := &model.Product{
		Code:           code,
		Name:           name,
		UnitPrice:      decimal.NewFromFloat(price),
		QuantityOnHand: qty,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

// Line is one product/quantity pair for CreateSale.
type Line struct {
	Product  *model.Product
	Quantity int
}

// CreateSale inserts a committed sale at the given time without touching
// stock. Lines are priced at the product's current unit price.
func CreateSale(t testing.TB, db *gorm.DB, cashier *model.User, at time.Time, lines ...Line) *model.Sale {
	t.Helper()
	sale := &model.Sale{
		TransactionNumber: "VT-TEMP-" + uuid.NewString(),
		CashierID:         cashier.ID,
		Total:             decimal.Zero,
		CreatedAt:         at.UTC(),
	}
	for _, l := range lines {
		subtotal := l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		sale.Total = sale.Total.Add(subtotal)
		sale.Lines = append(sale.Lines, model.SaleLine{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.UnitPrice,
			Subtotal:  subtotal,
		})
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("create sale: %v", err)
	}
	sale.TransactionNumber = model.FormatTransactionNumber(sale.ID)
	if err := db.Model(sale).Update("transaction_number", sale.TransactionNumber).Error; err != nil {
		t.Fatalf("number sale: %v", err)
	}
	return sale
}
