package form

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// Nullable is a patch field that distinguishes "absent" (leave unchanged),
// "null" (clear) and a value (set).
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Nullable carrying v.
func Some[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Value: v} }

// Null returns a Nullable that clears the field.
func Null[T any]() Nullable[T] { return Nullable[T]{Set: true, Null: true} }

// UnmarshalJSON is only invoked when the key is present.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

// MarshalJSON renders null for both absent and cleared values.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// applyPtr returns the new value of an optional field holding cur.
func (n Nullable[T]) applyPtr(cur *T) *T {
	switch {
	case !n.Set:
		return cur
	case n.Null:
		return nil
	default:
		v := n.Value
		return &v
	}
}

// applyString treats null as the empty string.
func applyString(n Nullable[string], cur string) string {
	switch {
	case !n.Set:
		return cur
	case n.Null:
		return ""
	default:
		return n.Value
	}
}

func set[T any](p *T, cur T) T {
	if p == nil {
		return cur
	}
	return *p
}

// BasicPatch is a partial update of the basic fields.
type BasicPatch struct {
	SKU             *string           `json:"sku" validate:"omitempty,max=64"`
	Name            *string           `json:"name" validate:"omitempty,max=200"`
	Tagline         *string           `json:"tagline" validate:"omitempty,max=300"`
	Description     *string           `json:"description"`
	LongDescription *string           `json:"longDescription"`
	Category        *string           `json:"category" validate:"omitempty,max=50"`
	Subcategory     *string           `json:"subcategory" validate:"omitempty,max=100"`
	BasePrice       *float64          `json:"basePrice" validate:"omitempty,gte=0"`
	OriginalPrice   Nullable[float64] `json:"originalPrice"`
	IsActive        *bool             `json:"isActive"`
	IsFeatured      *bool             `json:"isFeatured"`
	LeadTimeDays    *int              `json:"leadTimeDays" validate:"omitempty,gte=0"`
	DeliveryPrice   *float64          `json:"deliveryPrice" validate:"omitempty,gte=0"`
	DeliveryInfo    *string           `json:"deliveryInfo"`
	ReturnDays      *int              `json:"returnDays" validate:"omitempty,gte=0"`
	ReturnInfo      *string           `json:"returnInfo"`
	WarrantyYears   *int              `json:"warrantyYears" validate:"omitempty,gte=0"`
	WarrantyInfo    *string           `json:"warrantyInfo"`
	MadeIn          *string           `json:"madeIn" validate:"omitempty,max=100"`
}

// Check rejects values the struct tags cannot express.
func (p BasicPatch) Check() error {
	if p.OriginalPrice.Set && !p.OriginalPrice.Null && p.OriginalPrice.Value < 0 {
		return fmt.Errorf("originalPrice must be greater than or equal to 0")
	}
	return nil
}

// ModelPatch updates viewer settings of an existing model.
type ModelPatch struct {
	PosterURL         Nullable[string] `json:"posterUrl"`
	EnvironmentPreset *string          `json:"environmentPreset"`
	Scale             *float64         `json:"scale" validate:"omitempty,gt=0"`
	AutoRotate        *bool            `json:"autoRotate"`
}

// SizePatch is a partial update of one size. Dimensions are edited through
// UpdateSizeDimension.
type SizePatch struct {
	Label         *string                        `json:"label" validate:"omitempty,max=100"`
	SKU           Nullable[string]               `json:"sku"`
	Price         *float64                       `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice Nullable[float64]              `json:"originalPrice"`
	BedDimensions Nullable[domain.BedDimensions] `json:"bedDimensions"`
	InStock       *bool                          `json:"inStock"`
	LeadTime      Nullable[string]               `json:"leadTime"`
}

// Check rejects values the struct tags cannot express.
func (p SizePatch) Check() error {
	if p.OriginalPrice.Set && !p.OriginalPrice.Null && p.OriginalPrice.Value < 0 {
		return fmt.Errorf("originalPrice must be greater than or equal to 0")
	}
	if b := p.BedDimensions; b.Set && !b.Null && (b.Value.Width < 0 || b.Value.Length < 0) {
		return fmt.Errorf("bedDimensions must not be negative")
	}
	return nil
}

// FabricPatch is a partial update of one fabric.
type FabricPatch struct {
	Name       *string          `json:"name" validate:"omitempty,max=100"`
	HexColor   *string          `json:"hexColor" validate:"omitempty,hexcolor"`
	TextureURL Nullable[string] `json:"textureUrl"`
	Price      *float64         `json:"price" validate:"omitempty,gte=0"`
	InStock    *bool            `json:"inStock"`
}

// FeaturePatch is a partial update of one feature.
type FeaturePatch struct {
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
}

// SpecificationPatch is a partial update of one specification row.
type SpecificationPatch struct {
	Label *string `json:"label" validate:"omitempty,max=100"`
	Value *string `json:"value"`
}
