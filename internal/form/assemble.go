package form

// Payload is the create/update request body sent to the catalog API. It
// carries no identifiers; the catalog assigns them on insert.
type Payload struct {
	Basic
	Images           []ImagePayload          `json:"images"`
	Model            *ModelPayload           `json:"model,omitempty"`
	Sizes            []SizePayload           `json:"sizes"`
	FabricCategories []FabricCategoryPayload `json:"fabricCategories"`
	Features         []FeaturePayload        `json:"features"`
	Specifications   []SpecificationPayload  `json:"specifications"`
}

type ImagePayload struct {
	URL       string `json:"url"`
	AltText   string `json:"altText,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

type ModelPayload struct {
	LowPolyURL        string  `json:"lowPolyUrl"`
	HighPolyURL       string  `json:"highPolyUrl,omitempty"`
	PosterURL         string  `json:"posterUrl,omitempty"`
	EnvironmentPreset string  `json:"environmentPreset"`
	Scale             float64 `json:"scale"`
	AutoRotate        bool    `json:"autoRotate"`
}

// SizePayload flattens dimensions into sibling fields.
type SizePayload struct {
	Label         string   `json:"label"`
	SKU           string   `json:"sku,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Depth         float64  `json:"depth"`
	SeatHeight    *float64 `json:"seatHeight,omitempty"`
	BedWidth      *float64 `json:"bedWidth,omitempty"`
	BedLength     *float64 `json:"bedLength,omitempty"`
	InStock       bool     `json:"inStock"`
	LeadTime      string   `json:"leadTime,omitempty"`
	SortOrder     int      `json:"sortOrder"`
	IsDefault     bool     `json:"isDefault"`
}

type FabricCategoryPayload struct {
	Name      string          `json:"name"`
	SortOrder int             `json:"sortOrder"`
	Fabrics   []FabricPayload `json:"fabrics"`
}

type FabricPayload struct {
	Name       string  `json:"name"`
	HexColor   string  `json:"hexColor"`
	TextureURL string  `json:"textureUrl,omitempty"`
	Price      float64 `json:"price"`
	InStock    bool    `json:"inStock"`
	SortOrder  int     `json:"sortOrder"`
	IsDefault  bool    `json:"isDefault"`
}

type FeaturePayload struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

type SpecificationPayload struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	SortOrder int    `json:"sortOrder"`
}

// Assemble flattens s into a request body. Every sortOrder is the element's
// current position; the model is included only when it has a low-poly URL.
func Assemble(s State) Payload {
	p := Payload{
		Basic:            s.Basic.clone(),
		Images:           make([]ImagePayload, len(s.Images)),
		Sizes:            make([]SizePayload, len(s.Sizes)),
		FabricCategories: make([]FabricCategoryPayload, len(s.FabricCategories)),
		Features:         make([]FeaturePayload, len(s.Features)),
		Specifications:   make([]SpecificationPayload, len(s.Specifications)),
	}
	if p.CareInstructions == nil {
		p.CareInstructions = []string{}
	}

	for i, img := range s.Images {
		p.Images[i] = ImagePayload{
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: i,
		}
	}

	if m := s.Model; m != nil && m.LowPolyURL != "" {
		p.Model = &ModelPayload{
			LowPolyURL:        m.LowPolyURL,
			HighPolyURL:       m.HighPolyURL,
			PosterURL:         m.PosterURL,
			EnvironmentPreset: m.EnvironmentPreset,
			Scale:             m.Scale,
			AutoRotate:        m.AutoRotate,
		}
	}

	for i, sz := range s.Sizes {
		out := SizePayload{
			Label:         sz.Label,
			SKU:           sz.SKU,
			Price:         sz.Price,
			OriginalPrice: clonePtr(sz.OriginalPrice),
			Width:         sz.Dimensions.Width,
			Height:        sz.Dimensions.Height,
			Depth:         sz.Dimensions.Depth,
			SeatHeight:    clonePtr(sz.Dimensions.SeatHeight),
			InStock:       sz.InStock,
			LeadTime:      sz.LeadTime,
			SortOrder:     i,
			IsDefault:     sz.IsDefault,
		}
		if bd := sz.BedDimensions; bd != nil {
			w, l := bd.Width, bd.Length
			out.BedWidth = &w
			out.BedLength = &l
		}
		p.Sizes[i] = out
	}

	for i, c := range s.FabricCategories {
		fabrics := make([]FabricPayload, len(c.Fabrics))
		for j, f := range c.Fabrics {
			fabrics[j] = FabricPayload{
				Name:       f.Name,
				HexColor:   f.HexColor,
				TextureURL: f.TextureURL,
				Price:      f.Price,
				InStock:    f.InStock,
				SortOrder:  j,
				IsDefault:  f.IsDefault,
			}
		}
		p.FabricCategories[i] = FabricCategoryPayload{Name: c.Name, SortOrder: i, Fabrics: fabrics}
	}

	for i, f := range s.Features {
		p.Features[i] = FeaturePayload{Icon: f.Icon, Title: f.Title, Description: f.Description, SortOrder: i}
	}
	for i, sp := range s.Specifications {
		p.Specifications[i] = SpecificationPayload{Label: sp.Label, Value: sp.Value, SortOrder: i}
	}
	return p
}
