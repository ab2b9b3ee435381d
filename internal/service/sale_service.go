package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	ProcessSale(ctx context.Context, in *model.SaleInput, cashier *model.Identity) (*model.SaleResponse, error)
	GetSales(ctx context.Context, q SaleQuery) (*SalePage, error)
	GetSaleByID(ctx context.Context, id uint) (*model.SaleResponse, error)
}

// SaleQuery is the raw query string of GET /ventas.
type SaleQuery struct {
	Page      string
	Limit     string
	StartDate string
	EndDate   string
}

type SalePage struct {
	Page  int                  `json:"pagina"`
	Limit int                  `json:"limite"`
	Total int64                `json:"total"`
	Sales []model.SaleResponse `json:"ventas"`
}

type saleService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	wsHub       *ws.Hub
	loc         *time.Location
}

func NewSaleService(db *gorm.DB, pRepo repository.ProductRepository, sRepo repository.SaleRepository, hub *ws.Hub, loc *time.Location) SaleService {
	if loc == nil {
		loc = time.UTC
	}
	return &saleService{
		db:          db,
		productRepo: pRepo,
		saleRepo:    sRepo,
		wsHub:       hub,
		loc:         loc,
	}
}

type stagedLine struct {
	product   *model.Product
	quantity  int
	available int
	price    decimal.Decimal
	subtotal decimal.Decimal
}

// ProcessSale validates the cart against live stock and commits the sale
// header, its lines and the stock decrements as one unit. Lines are checked in
// order and the first bad line aborts the whole sale.
func (s *saleService) ProcessSale(ctx context.Context, in *model.SaleInput, cashier *model.Identity) (*model.SaleResponse, error) {
	if in == nil || len(in.Lines) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	var saleID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			total  = decimal.Zero
			lines  = make([]stagedLine, 0, len(in.Lines))
			staged = make(map[uint]int, len(in.Lines))
		)

		// 1. Validate and lock every product, accumulating the total
		for _, item := range in.Lines {
			productID, ok := validator.ParseID(item.ProductID)
			if !ok {
				return apperr.ErrInvalidLineData
			}
			qty, ok := validator.ParsePositiveInt(item.Quantity)
			if !ok {
				return apperr.ErrInvalidLineData
			}

			product, err := s.productRepo.FindForUpdate(tx, uint(productID))
			if err != nil {
				if repository.IsNotFound(err) {
					return apperr.ProductNotFound(uint(productID))
				}
				return err
			}

			available := product.QuantityOnHand - staged[product.ID]
			if available < qty {
				return apperr.InsufficientStock(product.Name, available, qty)
			}
			staged[product.ID] += qty

			subtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
			total = total.Add(subtotal)
			lines = append(lines, stagedLine{product: product, quantity: qty, available: available, price: product.UnitPrice, subtotal: subtotal})
		}

		// 2. Header with a placeholder number, then the number derived from the id
		sale := &model.Sale{
			TransactionNumber: model.TransactionPrefix + "TEMP-" + uuid.NewString(),
			CashierID:         cashier.ID,
			Total:             total,
		}
		if err := s.saleRepo.CreateHeader(tx, sale); err != nil {
			return err
		}
		if err := s.saleRepo.SetTransactionNumber(tx, sale.ID, model.FormatTransactionNumber(sale.ID)); err != nil {
			return err
		}

		// 3. Lines and stock decrements
		rows := make([]model.SaleLine, len(lines))
		for i, l := range lines {
			rows[i] = model.SaleLine{
				SaleID:    sale.ID,
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.price,
				Subtotal:  l.subtotal,
			}
		}
		if err := s.saleRepo.CreateLines(tx, rows); err != nil {
			return err
		}
		for _, l := range lines {
			ok, err := s.productRepo.DecrementStock(tx, l.product.ID, l.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.InsufficientStock(l.product.Name, l.available, l.quantity)
			}
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("load committed sale %d: %w", saleID, err)
	}
	resp := sale.ToResponse()

	obs.Logger.Info("sale committed",
		"sale_id", resp.ID,
		"transaction_number", resp.TransactionNumber,
		"cashier_id", cashier.ID,
		"lines", len(resp.Lines),
		"total", resp.Total.StringFixed(2),
	)
	s.wsHub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  ws.ActionSaleCreated,
		Sale:    &resp,
		User:    cashier,
		Message: fmt.Sprintf("%s registró la venta %s", cashier.Username, resp.TransactionNumber),
	})
	return &resp, nil
}

// GetSales pages through committed sales, newest first. The date filter
// applies only when both bounds are given; the end date is inclusive.
func (s *saleService) GetSales(ctx context.Context, q SaleQuery) (*SalePage, error) {
	filter := model.SaleFilter{Page: 1, Limit: 10}
	if q.Page != "" {
		n, err := strconv.Atoi(q.Page)
		if err != nil {
			return nil, apperr.ErrInvalidPagination
		}
		filter.Page = n
	}
	if q.Limit != "" {
		n, err := strconv.Atoi(q.Limit)
		if err != nil {
			return nil, apperr.ErrInvalidPagination
		}
		filter.Limit = n
	}
	if errs := validator.ValidateStruct(filter); len(errs) > 0 {
		return nil, apperr.ErrInvalidPagination
	}

	if q.StartDate != "" && q.EndDate != "" {
		start, err := parseDay(q.StartDate, s.loc)
		if err != nil {
			return nil, err
		}
		end, err := parseDay(q.EndDate, s.loc)
		if err != nil {
			return nil, err
		}
		_, end = dayBounds(end)
		filter.From, filter.To = &start, &end
	}

	sales, total, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &SalePage{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
		Sales: make([]model.SaleResponse, len(sales)),
	}
	for i := range sales {
		page.Sales[i] = sales[i].ToResponse()
	}
	return page, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, id uint) (*model.SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrSaleNotFound
		}
		return nil, err
	}
	resp := sale.ToResponse()
	return &resp, nil
}
