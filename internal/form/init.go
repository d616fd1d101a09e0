package form

import (
	"slices"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// NewState builds the editable state from p, or from defaults when p is nil.
// Nothing in the result aliases p.
func NewState(p *domain.Product) State {
	return State{
		Basic:            InitBasic(p),
		Images:           InitImages(p),
		Model:            InitModel(p),
		Sizes:            InitSizes(p),
		FabricCategories: InitFabricCategories(p),
		Features:         InitFeatures(p),
		Specifications:   InitSpecifications(p),
	}
}

// InitBasic maps the scalar fields. Zero lead time, return days, warranty
// years and an empty category are treated as absent and replaced by defaults.
func InitBasic(p *domain.Product) Basic {
	b := Basic{
		Category:         domain.DefaultCategory,
		IsActive:         true,
		LeadTimeDays:     domain.DefaultLeadTimeDays,
		ReturnDays:       domain.DefaultReturnDays,
		WarrantyYears:    domain.DefaultWarrantyYears,
		CareInstructions: []string{},
	}
	if p == nil {
		return b
	}

	b.SKU = p.SKU
	b.Name = p.Name
	b.Tagline = p.Tagline
	b.Description = p.Description
	b.LongDescription = p.LongDescription
	b.Subcategory = p.Subcategory
	b.BasePrice = p.BasePrice
	b.OriginalPrice = clonePtr(p.OriginalPrice)
	b.IsActive = p.IsActive
	b.IsFeatured = p.IsFeatured
	b.MadeIn = p.MadeIn
	if p.Category != "" {
		b.Category = p.Category
	}
	if p.LeadTimeDays != 0 {
		b.LeadTimeDays = p.LeadTimeDays
	}
	if d := p.DeliveryInfo; d != nil {
		b.DeliveryPrice = d.Price
		b.DeliveryInfo = d.Description
	}
	if r := p.Returns; r != nil {
		if r.Days != 0 {
			b.ReturnDays = r.Days
		}
		b.ReturnInfo = r.Description
	}
	if w := p.Warranty; w != nil {
		if w.Years != 0 {
			b.WarrantyYears = w.Years
		}
		b.WarrantyInfo = w.Description
	}
	if p.CareInstructions != nil {
		b.CareInstructions = slices.Clone(p.CareInstructions)
	}
	return b
}

// InitImages copies the gallery, renumbering sort order by position.
func InitImages(p *domain.Product) []Image {
	if p == nil || len(p.Images) == 0 {
		return []Image{}
	}
	out := make([]Image, len(p.Images))
	for i, img := range p.Images {
		out[i] = Image{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: i,
		}
	}
	return out
}

// InitModel returns nil when the product has no model.
func InitModel(p *domain.Product) *Model {
	if p == nil || p.Model == nil {
		return nil
	}
	return &Model{
		LowPolyURL:        p.Model.LowPolyURL,
		HighPolyURL:       p.Model.HighPolyURL,
		PosterURL:         p.Model.PosterURL,
		EnvironmentPreset: p.Model.EnvironmentPreset,
		Scale:             p.Model.Scale,
		AutoRotate:        p.Model.Controls.AutoRotate,
	}
}

// InitSizes copies size variants, keeping the server's sort order and default.
func InitSizes(p *domain.Product) []Size {
	if p == nil || len(p.Sizes) == 0 {
		return []Size{}
	}
	out := make([]Size, len(p.Sizes))
	for i, s := range p.Sizes {
		out[i] = Size{
			ID:            s.ID,
			Label:         s.Label,
			SKU:           s.SKU,
			Price:         s.Price,
			OriginalPrice: s.OriginalPrice,
			Dimensions:    s.Dimensions,
			BedDimensions: s.BedDimensions,
			InStock:       s.InStock,
			LeadTime:      s.LeadTime,
			SortOrder:     s.SortOrder,
			IsDefault:     s.IsDefault,
		}.clone()
	}
	return out
}

// InitFabricCategories groups the product's flat fabric list under its
// categories by matching each fabric's category name. Fabrics whose category
// name matches no category are dropped.
func InitFabricCategories(p *domain.Product) []FabricCategory {
	if p == nil || len(p.FabricCategories) == 0 {
		return []FabricCategory{}
	}
	out := make([]FabricCategory, len(p.FabricCategories))
	for i, c := range p.FabricCategories {
		fabrics := []Fabric{}
		for _, f := range p.Fabrics {
			if f.Category != c.Name {
				continue
			}
			fabrics = append(fabrics, Fabric{
				ID:         f.ID,
				Name:       f.Name,
				HexColor:   f.HexColor,
				TextureURL: f.TextureURL,
				Price:      f.Price,
				InStock:    f.InStock,
				Category:   f.Category,
				CategoryID: c.ID,
				SortOrder:  f.SortOrder,
				IsDefault:  f.IsDefault,
			})
		}
		out[i] = FabricCategory{
			ID:        c.ID,
			Name:      c.Name,
			SortOrder: c.SortOrder,
			Fabrics:   fabrics,
		}
	}
	return out
}

// InitFeatures copies the feature list.
func InitFeatures(p *domain.Product) []Feature {
	if p == nil || len(p.Features) == 0 {
		return []Feature{}
	}
	out := make([]Feature, len(p.Features))
	for i, f := range p.Features {
		out[i] = Feature{ID: f.ID, Icon: f.Icon, Title: f.Title, Description: f.Description}
	}
	return out
}

// InitSpecifications copies the specification rows.
func InitSpecifications(p *domain.Product) []Specification {
	if p == nil || len(p.Specifications) == 0 {
		return []Specification{}
	}
	out := make([]Specification, len(p.Specifications))
	for i, s := range p.Specifications {
		out[i] = Specification{Label: s.Label, Value: s.Value}
	}
	return out
}
