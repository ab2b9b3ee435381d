package service

import (
	"context"
	"fmt"

	"go-inventory-pos/internal/apperr"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/validator"
)

type CatalogService interface {
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, in *model.ProductInput, actor *model.Identity) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, in *model.ProductInput, actor *model.Identity) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint, actor *model.Identity) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		wsHub:       hub,
	}
}

func (s *catalogService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	return s.findProduct(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, in *model.ProductInput, actor *model.Identity) (*model.Product, error) {
	// 1. Required fields, then price, then quantity
	if isBlank(in.Code) || isBlank(in.Name) || in.UnitPrice == nil || in.Quantity == nil {
		return nil, apperr.ErrMissingFields
	}
	price, ok := validator.ParsePrice(in.UnitPrice)
	if !ok {
		return nil, apperr.ErrInvalidPrice
	}
	qty, ok := validator.ParseNonNegativeInt(in.Quantity)
	if !ok {
		return nil, apperr.ErrInvalidQuantity
	}

	// 2. Code uniqueness
	existing, err := s.productRepo.FindByCode(ctx, *in.Code)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.CodeConflict(*in.Code)
	}

	product := &model.Product{
		Code:           *in.Code,
		Name:           *in.Name,
		Description:    nilIfEmpty(in.Description),
		UnitPrice:      price.Round(2),
		QuantityOnHand: qty,
	}

	// 3. Insert; the unique index catches a concurrent insert of the same code
	if err := s.productRepo.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.CodeConflict(product.Code)
		}
		return nil, err
	}

	s.publish(ws.ActionProductCreated, product, actor, fmt.Sprintf("%s creó el producto '%s'", actorName(actor), product.Name))
	return product, nil
}

// UpdateProduct merges the provided fields over the stored product.
func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in *model.ProductInput, actor *model.Identity) (*model.Product, error) {
	if in.Empty() {
		return nil, apperr.ErrNoFieldsProvided
	}

	var (
		price    = in.UnitPrice
		quantity = in.Quantity
	)
	if price != nil {
		if _, ok := validator.ParsePrice(price); !ok {
			return nil, apperr.ErrInvalidPrice
		}
	}
	if quantity != nil {
		if _, ok := validator.ParseNonNegativeInt(quantity); !ok {
			return nil, apperr.ErrInvalidQuantity
		}
	}

	existing, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStock := existing.QuantityOnHand

	if !isBlank(in.Code) && *in.Code != existing.Code {
		other, err := s.productRepo.FindByCode(ctx, *in.Code)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, apperr.CodeConflict(*in.Code)
		}
		existing.Code = *in.Code
	}
	if !isBlank(in.Name) {
		existing.Name = *in.Name
	}
	if in.Description != nil {
		existing.Description = in.Description
	}
	if price != nil {
		p, _ := validator.ParsePrice(price)
		existing.UnitPrice = p.Round(2)
	}
	if quantity != nil {
		existing.QuantityOnHand, _ = validator.ParseNonNegativeInt(quantity)
	}

	if err := s.productRepo.Update(ctx, existing); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.CodeConflict(existing.Code)
		}
		return nil, err
	}

	obs.Logger.Info("product updated", "product_id", id, "old_stock", oldStock, "new_stock", existing.QuantityOnHand)
	s.publish(ws.ActionProductUpdated, existing, actor, fmt.Sprintf("%s actualizó el producto '%s'", actorName(actor), existing.Name))
	return existing, nil
}

// DeleteProduct removes a product no sale line references and returns the
// removed row.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint, actor *model.Identity) (*model.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.productRepo.CountSaleLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.ErrHasDependentSales
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apperr.ErrHasDependentSales
		}
		return nil, err
	}

	s.publish(ws.ActionProductDeleted, product, actor, fmt.Sprintf("%s eliminó el producto '%s'", actorName(actor), product.Name))
	return product, nil
}

func (s *catalogService) findProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) publish(action string, product *model.Product, actor *model.Identity, msg string) {
	snapshot := *product
	s.wsHub.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  action,
		Product: &snapshot,
		User:    actor,
		Message: msg,
	})
}

func actorName(actor *model.Identity) string {
	if actor == nil {
		return "sistema"
	}
	return actor.Username
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
