package service

import (
	"context"
	"log/slog"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/event"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
	"github.com/samijoehayek/opus-oakadmin/pkg/logger"
	"github.com/samijoehayek/opus-oakadmin/pkg/pagination"
)

// ProductLister is the subset of the catalog API behind the product list page.
type ProductLister interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductListResponse, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductService serves the admin product list.
type ProductService struct {
	catalog  ProductLister
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(catalog ProductLister, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// List returns one page of products matching q.
func (s *ProductService) List(ctx context.Context, q domain.ProductQuery) (*pagination.Result[domain.ProductListItem], error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.InvalidInput("minPrice must not exceed maxPrice")
	}

	resp, err := s.catalog.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}

	params := pagination.Params{Page: q.Page, Limit: q.Limit}
	if resp.Page > 0 {
		params.Page = resp.Page
	}
	result := pagination.NewResult(resp.Products, resp.Total, resp.TotalPages, params)
	return &result, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}

	log := logger.WithContext(ctx, s.logger)
	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		log.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	log.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}
