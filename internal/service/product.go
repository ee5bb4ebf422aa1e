package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog answers whether category ids exist. Category management itself
// lives outside this service.
type Catalog interface {
	CategoriesExist(ctx context.Context, ids []string) (bool, error)
}

// ProductIndexer mirrors product documents into the search index.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductService struct {
	Repo    *repo.GormRepo
	Stock   *StockService
	Catalog Catalog
	Indexer ProductIndexer
}

// CreateProduct registers a vendor's product. Initial stock is seeded from
// the nominal quantity; products start inactive until activated.
func (s *ProductService) CreateProduct(ctx context.Context, vendorID uuid.UUID, product *models.Product) (*models.Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if product.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
	}

	if s.Catalog != nil && len(product.CategoryIDs) > 0 {
		ok, err := s.Catalog.CategoriesExist(ctx, product.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown category", ErrValidation)
		}
	}

	product.VendorID = vendorID
	product.Stock = product.Quantity
	product.IsActive = false

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.Stock.NotifyIfLow(ctx, product)
	s.index(ctx, product)
	return product, nil
}

type PatchProductRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price"`
	Quantity          *int     `json:"quantity"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
	CategoryIDs       []string `json:"category_ids"`
}

// UpdateProduct patches vendor-editable fields. A quantity change re-bases
// stock by the same difference, routed through the ledger so the adjustment
// is race-safe and the low-stock hook still fires on the edge.
func (s *ProductService) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, req PatchProductRequest) (*models.Product, error) {
	product, err := s.Repo.GetVendorProduct(ctx, vendorID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.CategoryIDs != nil {
		product.CategoryIDs = req.CategoryIDs
	}

	quantityDiff := 0
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
		}
		quantityDiff = *req.Quantity - product.Quantity
		product.Quantity = *req.Quantity
	}

	// The ledger goes first: a shrink that would take stock negative rejects
	// the whole patch before anything is persisted.
	if quantityDiff != 0 {
		newStock, err := s.Stock.Adjust(ctx, productID, quantityDiff)
		if err != nil {
			return nil, err
		}
		product.Stock = newStock
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		if quantityDiff != 0 {
			if _, relErr := s.Stock.Adjust(ctx, productID, -quantityDiff); relErr != nil {
				return nil, errors.Join(err, relErr)
			}
		}
		return nil, err
	}

	s.index(ctx, product)
	return product, nil
}

func (s *ProductService) ActivateProduct(ctx context.Context, productID uuid.UUID) error {
	return s.setActive(ctx, productID, true)
}

func (s *ProductService) DeactivateProduct(ctx context.Context, productID uuid.UUID) error {
	return s.setActive(ctx, productID, false)
}

func (s *ProductService) setActive(ctx context.Context, productID uuid.UUID, active bool) error {
	err := s.Repo.SetProductActive(ctx, productID, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return err
	}
	if product, err := s.Repo.GetProduct(ctx, productID); err == nil {
		s.index(ctx, product)
	}
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	err := s.Repo.DeleteProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return err
	}
	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, productID); err != nil {
			logging.FromContext(ctx).Error("product_deindex_failed",
				"product_id", productID, "error", err)
		}
	}
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetVendorProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetVendorProduct(ctx, vendorID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *ProductService) GetActiveProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProductsByActive(ctx, true)
}

func (s *ProductService) GetInactiveProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProductsByActive(ctx, false)
}

func (s *ProductService) GetVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	return s.Repo.ListVendorProducts(ctx, vendorID)
}

func (s *ProductService) index(ctx context.Context, product *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Error("product_index_failed",
			"product_id", product.ID, "error", err)
	}
}
