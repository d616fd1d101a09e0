package domain

import "time"

// Product is the full product document served by the catalog API.
type Product struct {
	ID               string           `json:"id"`
	SKU              string           `json:"sku"`
	Slug             string           `json:"slug"`
	Name             string           `json:"name"`
	Tagline          string           `json:"tagline,omitempty"`
	Description      string           `json:"description,omitempty"`
	LongDescription  string           `json:"longDescription,omitempty"`
	Category         string           `json:"category"`
	Subcategory      string           `json:"subcategory,omitempty"`
	BasePrice        float64          `json:"basePrice"`
	OriginalPrice    *float64         `json:"originalPrice,omitempty"`
	IsActive         bool             `json:"isActive"`
	IsFeatured       bool             `json:"isFeatured"`
	LeadTimeDays     int              `json:"leadTimeDays"`
	DeliveryInfo     *DeliveryInfo    `json:"deliveryInfo,omitempty"`
	Returns          *ReturnPolicy    `json:"returns,omitempty"`
	Warranty         *Warranty        `json:"warranty,omitempty"`
	MadeIn           string           `json:"madeIn,omitempty"`
	CareInstructions []string         `json:"careInstructions,omitempty"`
	Images           []ProductImage   `json:"images,omitempty"`
	Model            *Model3D         `json:"model,omitempty"`
	Sizes            []ProductSize    `json:"sizes,omitempty"`
	FabricCategories []FabricCategory `json:"fabricCategories,omitempty"`
	Fabrics          []Fabric         `json:"fabrics,omitempty"`
	Features         []Feature        `json:"features,omitempty"`
	Specifications   []Specification  `json:"specifications,omitempty"`
	CreatedAt        *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time       `json:"updatedAt,omitempty"`
}

// DeliveryInfo describes delivery pricing for a product.
type DeliveryInfo struct {
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// ReturnPolicy describes the return window.
type ReturnPolicy struct {
	Days        int    `json:"days"`
	Description string `json:"description,omitempty"`
}

// Warranty describes the warranty period.
type Warranty struct {
	Years       int    `json:"years"`
	Description string `json:"description,omitempty"`
}

// ProductImage is one gallery image.
type ProductImage struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

// Model3D describes the optional 3D viewer asset set.
type Model3D struct {
	LowPolyURL        string        `json:"lowPolyUrl"`
	HighPolyURL       string        `json:"highPolyUrl,omitempty"`
	PosterURL         string        `json:"posterUrl,omitempty"`
	EnvironmentPreset string        `json:"environmentPreset"`
	Scale             float64       `json:"scale"`
	Controls          ModelControls `json:"controls"`
}

// ModelControls holds viewer interaction settings.
type ModelControls struct {
	AutoRotate bool `json:"autoRotate"`
}

// ProductSize is a size variant.
type ProductSize struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	SKU           string         `json:"sku,omitempty"`
	Price         float64        `json:"price"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	Dimensions    Dimensions     `json:"dimensions"`
	BedDimensions *BedDimensions `json:"bedDimensions,omitempty"`
	InStock       bool           `json:"inStock"`
	LeadTime      string         `json:"leadTime,omitempty"`
	SortOrder     int            `json:"sortOrder"`
	IsDefault     bool           `json:"isDefault"`
}

// Dimensions are outer measurements in centimetres.
type Dimensions struct {
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Depth      float64  `json:"depth"`
	SeatHeight *float64 `json:"seatHeight,omitempty"`
}

// BedDimensions are mattress measurements for beds.
type BedDimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// FabricCategory groups fabrics by name, e.g. "Linen".
type FabricCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// Fabric is an upholstery option. Category holds the owning category's name.
type Fabric struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HexColor   string  `json:"hexColor"`
	TextureURL string  `json:"textureUrl,omitempty"`
	Price      float64 `json:"price"`
	InStock    bool    `json:"inStock"`
	Category   string  `json:"category"`
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

// Specification is a label/value row in the spec sheet.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
