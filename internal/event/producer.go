package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	pkgkafka "github.com/samijoehayek/opus-oakadmin/pkg/kafka"
)

// Kafka topic constants for admin audit events.
const (
	TopicProductSaved   = "oakadmin.product.saved"
	TopicProductDeleted = "oakadmin.product.deleted"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the admin service.
const SourceAdminService = "oakadmin"

// Operation values carried by product.saved.
const (
	OperationCreated = "created"
	OperationUpdated = "updated"
)

// ProductSavedData is the payload for a product.saved event.
type ProductSavedData struct {
	ProductID  string `json:"product_id"`
	SKU        string `json:"sku"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Operation  string `json:"operation"`
	SessionID  string `json:"session_id"`
	ImageCount int    `json:"image_count"`
	SizeCount  int    `json:"size_count"`
	HasModel   bool   `json:"has_model"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ProductID string `json:"product_id"`
}

// Producer publishes admin audit events to Kafka. A Producer built with a nil
// Kafka producer drops every event, which is how Kafka is disabled.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the admin service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductSaved publishes a product.saved event.
func (p *Producer) PublishProductSaved(ctx context.Context, sessionID, operation string, product *domain.Product) error {
	if p.kafka == nil {
		return nil
	}

	data := ProductSavedData{
		ProductID:  product.ID,
		SKU:        product.SKU,
		Slug:       product.Slug,
		Name:       product.Name,
		Category:   product.Category,
		Operation:  operation,
		SessionID:  sessionID,
		ImageCount: len(product.Images),
		SizeCount:  len(product.Sizes),
		HasModel:   product.Model != nil,
	}

	event, err := pkgkafka.NewEvent(ctx, "product.saved", product.ID, AggregateTypeProduct, SourceAdminService, data)
	if err != nil {
		return fmt.Errorf("create product.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductSaved, event); err != nil {
		return fmt.Errorf("publish product.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.saved event",
		slog.String("product_id", product.ID),
		slog.String("operation", operation),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	if p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(ctx, "product.deleted", productID, AggregateTypeProduct, SourceAdminService, ProductDeletedData{ProductID: productID})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", productID),
	)

	return nil
}
