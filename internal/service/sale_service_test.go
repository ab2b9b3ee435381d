package service_test

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/testutil"
	"go-inventory-pos/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSaleService(db *gorm.DB, hub *ws.Hub) service.SaleService {
	return service.NewSaleService(db, repository.NewProductRepo(db), repository.NewSaleRepo(db), hub, time.UTC)
}

func cart(lines ...model.SaleLineInput) *model.SaleInput {
	return &model.SaleInput{Lines: lines}
}

func line(productID uint, qty any) model.SaleLineInput {
	return model.SaleLineInput{ProductID: float64(productID), Quantity: qty}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	p, err := repository.NewProductRepo(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.QuantityOnHand
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestProcessSaleHappyPath(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)

	sale, err := sales.ProcessSale(context.Background(), cart(line(p.ID, 3.0)), cashier)
	require.NoError(t, err)

	assert.Equal(t, "30.00", sale.Total.StringFixed(2))
	assert.Equal(t, 2, stockOf(t, db, p.ID))
	assert.Equal(t, "caja1", sale.CashierUsername)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Widget", sale.Lines[0].ProductName)
	assert.Equal(t, 3, sale.Lines[0].Quantity)
	assert.Equal(t, "10.00", sale.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", sale.Lines[0].Subtotal.StringFixed(2))

	id, err := model.ParseTransactionNumber(sale.TransactionNumber)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, id)
	assert.Equal(t, model.FormatTransactionNumber(sale.ID), sale.TransactionNumber)
}

func TestProcessSaleInsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 2)

	_, err := sales.ProcessSale(context.Background(), cart(line(p.ID, 5.0)), cashier)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente para Widget. Disponible: 2, Solicitado: 5", err.Error())

	assert.Equal(t, 2, stockOf(t, db, p.ID))
	assert.Zero(t, countRows(t, db, &model.Sale{}))
}

func TestProcessSaleIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	a := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)
	b := testutil.CreateProduct(t, db, "B1", "Gadget", 2.0, 1)

	_, err := sales.ProcessSale(context.Background(), cart(line(a.ID, 2.0), line(b.ID, 3.0)), cashier)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Equal(t, 1, stockOf(t, db, b.ID))
	assert.Zero(t, countRows(t, db, &model.Sale{}))
	assert.Zero(t, countRows(t, db, &model.SaleLine{}))
}

func TestProcessSaleLineErrors(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)
	ctx := context.Background()

	_, err := sales.ProcessSale(ctx, cart(), cashier)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	_, err = sales.ProcessSale(ctx, cart(line(p.ID, 0.0)), cashier)
	assert.ErrorIs(t, err, apperr.ErrInvalidLineData)

	_, err = sales.ProcessSale(ctx, cart(model.SaleLineInput{Quantity: 1.0}), cashier)
	assert.ErrorIs(t, err, apperr.ErrInvalidLineData)

	_, err = sales.ProcessSale(ctx, cart(line(p.ID, "2")), cashier)
	assert.ErrorIs(t, err, apperr.ErrInvalidLineData)

	_, err = sales.ProcessSale(ctx, cart(line(999, 1.0)), cashier)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
	assert.Equal(t, "Producto con ID 999 no encontrado", err.Error())

	// the first bad line wins; later lines are never looked at
	_, err = sales.ProcessSale(ctx, cart(line(999, 1.0), line(p.ID, -1.0)), cashier)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	assert.Equal(t, 5, stockOf(t, db, p.ID))
	assert.Zero(t, countRows(t, db, &model.Sale{}))
}

func TestProcessSaleDuplicateLinesShareStock(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)

	_, err := sales.ProcessSale(context.Background(), cart(line(p.ID, 3.0), line(p.ID, 3.0)), cashier)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente para Widget. Disponible: 2, Solicitado: 3", err.Error())
	assert.Equal(t, 5, stockOf(t, db, p.ID))

	sale, err := sales.ProcessSale(context.Background(), cart(line(p.ID, 3.0), line(p.ID, 2.0)), cashier)
	require.NoError(t, err)
	assert.Len(t, sale.Lines, 2)
	assert.Equal(t, "50.00", sale.Total.StringFixed(2))
	assert.Equal(t, 0, stockOf(t, db, p.ID))
}

func TestStockEqualsInitialMinusSold(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 1.0, 10)

	sold := 0
	for _, qty := range []int{3, 4, 5, 2, 1} {
		_, err := sales.ProcessSale(context.Background(), cart(line(p.ID, float64(qty))), cashier)
		if err == nil {
			sold += qty
			continue
		}
		require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	}
	assert.Equal(t, 10, sold)
	assert.Equal(t, 10-sold, stockOf(t, db, p.ID))
}

func TestProcessSaleCapturesPriceAtSale(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	catalog := service.NewCatalogService(repository.NewProductRepo(db), nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)
	ctx := context.Background()

	sale, err := sales.ProcessSale(ctx, cart(line(p.ID, 1.0)), cashier)
	require.NoError(t, err)

	_, err = catalog.UpdateProduct(ctx, p.ID, &model.ProductInput{UnitPrice: 99.0}, admin)
	require.NoError(t, err)

	again, err := sales.GetSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", again.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "10.00", again.Total.StringFixed(2))
}

type recordingClient struct {
	mu       sync.Mutex
	messages [][]byte
}

func (c *recordingClient) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, data)
	return nil
}

func (c *recordingClient) Close() error { return nil }

func (c *recordingClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func TestProcessSalePublishesEvent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	client := &recordingClient{}
	hub.Attach(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	sales := newSaleService(db, hub)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)

	sale, err := sales.ProcessSale(ctx, cart(line(p.ID, 1.0)), &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(client.received()) == 1 }, time.Second, 5*time.Millisecond)
	var ev ws.Event
	require.NoError(t, json.Unmarshal(client.received()[0], &ev))
	assert.Equal(t, ws.TypeStockUpdate, ev.Type)
	assert.Equal(t, ws.ActionSaleCreated, ev.Action)
	require.NotNil(t, ev.Sale)
	assert.Equal(t, sale.TransactionNumber, ev.Sale.TransactionNumber)
}

func TestGetSalesPagination(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 100)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		testutil.CreateSale(t, db, u, base.Add(time.Duration(i)*time.Hour), testutil.Line{Product: p, Quantity: 1})
	}

	page, err := sales.GetSales(ctx, service.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(12), page.Total)
	assert.Len(t, page.Sales, 10)

	page, err = sales.GetSales(ctx, service.SaleQuery{Page: "2", Limit: "10"})
	require.NoError(t, err)
	assert.Len(t, page.Sales, 2)

	page, err = sales.GetSales(ctx, service.SaleQuery{StartDate: "2024-03-10", EndDate: "2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)

	page, err = sales.GetSales(ctx, service.SaleQuery{StartDate: "2024-03-11", EndDate: "2024-03-12"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Sales)

	for _, q := range []service.SaleQuery{{Page: "0"}, {Limit: "500"}, {Page: "x"}} {
		_, err = sales.GetSales(ctx, q)
		assert.ErrorIs(t, err, apperr.ErrInvalidPagination)
	}

	_, err = sales.GetSales(ctx, service.SaleQuery{StartDate: "10/03/2024", EndDate: "2024-03-11"})
	assert.ErrorIs(t, err, apperr.ErrInvalidDate)

	_, err = sales.GetSaleByID(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrSaleNotFound)
}

// lateShortageRepo lets the lock and check pass but loses the guarded
// decrement from the given call onwards, as when another writer got there first.
type lateShortageRepo struct {
	repository.ProductRepository
	failFrom int
	calls    int
}

func (r *lateShortageRepo) DecrementStock(tx *gorm.DB, id uint, quantity int) (bool, error) {
	r.calls++
	if r.calls >= r.failFrom {
		return false, nil
	}
	return r.ProductRepository.DecrementStock(tx, id, quantity)
}

func TestProcessSaleLostDecrementReportsStagedAvailability(t *testing.T) {
	db := testutil.NewDB(t)
	products := &lateShortageRepo{ProductRepository: repository.NewProductRepo(db), failFrom: 2}
	sales := service.NewSaleService(db, products, repository.NewSaleRepo(db), nil, time.UTC)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)

	_, err := sales.ProcessSale(context.Background(), cart(line(p.ID, 2.0), line(p.ID, 2.0)), cashier)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente para Widget. Disponible: 3, Solicitado: 2", err.Error())
	assert.Equal(t, 5, stockOf(t, db, p.ID))
	assert.Zero(t, countRows(t, db, &model.Sale{}))
}

func TestProcessSaleAcceptsStringProductID(t *testing.T) {
	db := testutil.NewDB(t)
	sales := newSaleService(db, nil)
	u := testutil.CreateUser(t, db, "caja1", "secret1", model.RoleCashier)
	cashier := &model.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	p := testutil.CreateProduct(t, db, "A1", "Widget", 10.0, 5)

	in := cart(model.SaleLineInput{ProductID: strconv.Itoa(int(p.ID)), Quantity: 2.0})
	sale, err := sales.ProcessSale(context.Background(), in, cashier)
	require.NoError(t, err)
	assert.Equal(t, "20.00", sale.Total.StringFixed(2))
	assert.Equal(t, 3, stockOf(t, db, p.ID))

	_, err = sales.ProcessSale(context.Background(), cart(model.SaleLineInput{ProductID: "x1", Quantity: 1.0}), cashier)
	assert.ErrorIs(t, err, apperr.ErrInvalidLineData)
}
