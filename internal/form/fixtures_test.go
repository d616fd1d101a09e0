package form

import (
	"time"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func bedDims(w, l float64) domain.BedDimensions {
	return domain.BedDimensions{Width: w, Length: l}
}

func sampleProduct() *domain.Product {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:               "550e8400-e29b-41d4-a716-446655440000",
		SKU:              "OAK-SOFA-01",
		Slug:             "harbour-sofa",
		Name:             "Harbour Sofa",
		Tagline:          "Deep seats, solid oak",
		Description:      "A three seater.",
		LongDescription:  "Hand finished in Portugal.",
		Category:         "SOFAS",
		Subcategory:      "Three seaters",
		BasePrice:        2400,
		OriginalPrice:    ptr(2800.0),
		IsActive:         true,
		IsFeatured:       true,
		LeadTimeDays:     35,
		DeliveryInfo:     &domain.DeliveryInfo{Price: 95, Description: "White glove"},
		Returns:          &domain.ReturnPolicy{Days: 30, Description: "Free returns"},
		Warranty:         &domain.Warranty{Years: 10, Description: "Frame warranty"},
		MadeIn:           "Portugal",
		CareInstructions: []string{"Vacuum weekly", "Blot spills"},
		Images: []domain.ProductImage{
			{ID: "img-1", URL: "https://cdn.example.com/a.jpg", AltText: "Front", IsPrimary: true, SortOrder: 4},
			{ID: "img-2", URL: "https://cdn.example.com/b.jpg", AltText: "Side", SortOrder: 9},
		},
		Model: &domain.Model3D{
			LowPolyURL:        "https://cdn.example.com/sofa-low.glb",
			HighPolyURL:       "https://cdn.example.com/sofa-high.glb",
			EnvironmentPreset: "APARTMENT",
			Scale:             1.2,
			Controls:          domain.ModelControls{AutoRotate: false},
		},
		Sizes: []domain.ProductSize{
			{
				ID: "size-1", Label: "Two seater", Price: 2400,
				Dimensions: domain.Dimensions{Width: 180, Height: 85, Depth: 95, SeatHeight: ptr(45.0)},
				InStock:    true, SortOrder: 0, IsDefault: true,
			},
			{
				ID: "size-2", Label: "Three seater", SKU: "OAK-SOFA-01-3", Price: 2900, OriginalPrice: ptr(3200.0),
				Dimensions: domain.Dimensions{Width: 230, Height: 85, Depth: 95},
				InStock:    false, LeadTime: "8 weeks", SortOrder: 1,
			},
		},
		FabricCategories: []domain.FabricCategory{
			{ID: "cat-1", Name: "Linen", SortOrder: 0},
			{ID: "cat-2", Name: "Velvet", SortOrder: 1},
		},
		Fabrics: []domain.Fabric{
			{ID: "fab-1", Name: "Natural", HexColor: "#E8DCC8", Price: 0, InStock: true, Category: "Linen", SortOrder: 0, IsDefault: true},
			{ID: "fab-2", Name: "Moss", HexColor: "#4A5D23", TextureURL: "https://cdn.example.com/moss.jpg", Price: 150, InStock: true, Category: "Velvet", SortOrder: 0},
			{ID: "fab-3", Name: "Charcoal", HexColor: "#333333", Price: 0, InStock: true, Category: "Linen", SortOrder: 1},
			{ID: "fab-4", Name: "Orphan", HexColor: "#FFFFFF", Category: "Boucle"},
		},
		Features: []domain.Feature{
			{ID: "feat-1", Icon: "hammer", Title: "Handmade", Description: "Built by hand"},
		},
		Specifications: []domain.Specification{
			{Label: "Material", Value: "Oak"},
			{Label: "Finish", Value: "Oiled"},
		},
		CreatedAt: &created,
	}
}
