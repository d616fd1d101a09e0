package form

import (
	"slices"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// State is the editable form state of one product editing session. Each field
// is an independently editable sub-state.
type State struct {
	Basic            Basic            `json:"basic"`
	Images           []Image          `json:"images"`
	Model            *Model           `json:"model"`
	Sizes            []Size           `json:"sizes"`
	FabricCategories []FabricCategory `json:"fabricCategories"`
	Features         []Feature        `json:"features"`
	Specifications   []Specification  `json:"specifications"`
}

// Basic mirrors the product's scalar fields. Delivery, returns and warranty
// are flattened into price/days/years plus a free-text description.
type Basic struct {
	SKU              string   `json:"sku"`
	Name             string   `json:"name"`
	Tagline          string   `json:"tagline"`
	Description      string   `json:"description"`
	LongDescription  string   `json:"longDescription"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	BasePrice        float64  `json:"basePrice"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	IsActive         bool     `json:"isActive"`
	IsFeatured       bool     `json:"isFeatured"`
	LeadTimeDays     int      `json:"leadTimeDays"`
	DeliveryPrice    float64  `json:"deliveryPrice"`
	DeliveryInfo     string   `json:"deliveryInfo"`
	ReturnDays       int      `json:"returnDays"`
	ReturnInfo       string   `json:"returnInfo"`
	WarrantyYears    int      `json:"warrantyYears"`
	WarrantyInfo     string   `json:"warrantyInfo"`
	MadeIn           string   `json:"madeIn"`
	CareInstructions []string `json:"careInstructions"`
}

// Image is one gallery entry. ID is empty for images uploaded in this session.
type Image struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

// Model is the 3D asset set. It exists only once a low-poly asset has been
// uploaded, or when the product already had one.
type Model struct {
	LowPolyURL        string  `json:"lowPolyUrl"`
	HighPolyURL       string  `json:"highPolyUrl,omitempty"`
	PosterURL         string  `json:"posterUrl,omitempty"`
	EnvironmentPreset string  `json:"environmentPreset"`
	Scale             float64 `json:"scale"`
	AutoRotate        bool    `json:"autoRotate"`
}

// Size is a size variant.
type Size struct {
	ID            string                `json:"id"`
	Label         string                `json:"label"`
	SKU           string                `json:"sku,omitempty"`
	Price         float64               `json:"price"`
	OriginalPrice *float64              `json:"originalPrice,omitempty"`
	Dimensions    domain.Dimensions     `json:"dimensions"`
	BedDimensions *domain.BedDimensions `json:"bedDimensions,omitempty"`
	InStock       bool                  `json:"inStock"`
	LeadTime      string                `json:"leadTime,omitempty"`
	SortOrder     int                   `json:"sortOrder"`
	IsDefault     bool                  `json:"isDefault"`
}

// FabricCategory owns an ordered set of fabrics.
type FabricCategory struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SortOrder int      `json:"sortOrder"`
	Fabrics   []Fabric `json:"fabrics"`
}

// Fabric is an upholstery option. CategoryID references the owning category;
// Category is the owning category's name as of when the fabric was created or
// last edited and is not refreshed on rename.
type Fabric struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HexColor   string  `json:"hexColor"`
	TextureURL string  `json:"textureUrl,omitempty"`
	Price      float64 `json:"price"`
	InStock    bool    `json:"inStock"`
	Category   string  `json:"category"`
	CategoryID string  `json:"categoryId"`
	SortOrder  int     `json:"sortOrder"`
	IsDefault  bool    `json:"isDefault"`
}

// Feature is a highlighted selling point.
type Feature struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Specification is a label/value row. Identity is positional.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Basic:          s.Basic.clone(),
		Images:         slices.Clone(s.Images),
		Features:       slices.Clone(s.Features),
		Specifications: slices.Clone(s.Specifications),
	}
	if s.Model != nil {
		m := *s.Model
		out.Model = &m
	}
	if s.Sizes != nil {
		out.Sizes = make([]Size, len(s.Sizes))
		for i, sz := range s.Sizes {
			out.Sizes[i] = sz.clone()
		}
	}
	if s.FabricCategories != nil {
		out.FabricCategories = make([]FabricCategory, len(s.FabricCategories))
		for i, c := range s.FabricCategories {
			c.Fabrics = slices.Clone(c.Fabrics)
			out.FabricCategories[i] = c
		}
	}
	return out
}

func (b Basic) clone() Basic {
	b.OriginalPrice = clonePtr(b.OriginalPrice)
	b.CareInstructions = slices.Clone(b.CareInstructions)
	return b
}

func (s Size) clone() Size {
	s.OriginalPrice = clonePtr(s.OriginalPrice)
	s.Dimensions.SeatHeight = clonePtr(s.Dimensions.SeatHeight)
	s.BedDimensions = clonePtr(s.BedDimensions)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
