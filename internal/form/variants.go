package form

import (
	"slices"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// DimensionField names one field of a size's dimensions.
type DimensionField string

const (
	DimensionWidth      DimensionField = "width"
	DimensionHeight     DimensionField = "height"
	DimensionDepth      DimensionField = "depth"
	DimensionSeatHeight DimensionField = "seatHeight"
)

// ParseDimensionField validates a dimension field name.
func ParseDimensionField(s string) (DimensionField, bool) {
	switch f := DimensionField(s); f {
	case DimensionWidth, DimensionHeight, DimensionDepth, DimensionSeatHeight:
		return f, true
	}
	return "", false
}

// AddSize appends a size priced at basePrice with zero dimensions. Only the
// first size of an empty list is created as default.
func AddSize(sizes []Size, basePrice float64, newID IDFunc) []Size {
	out := make([]Size, 0, len(sizes)+1)
	out = append(out, sizes...)
	return append(out, Size{
		ID:        newID(),
		Price:     basePrice,
		InStock:   true,
		SortOrder: len(sizes),
		IsDefault: len(sizes) == 0,
	})
}

// RemoveSize drops the size at index. The default is not reassigned.
func RemoveSize(sizes []Size, index int) []Size {
	return removeAt(sizes, index)
}

// UpdateSize applies p to the size at index.
func UpdateSize(sizes []Size, index int, p SizePatch) []Size {
	return updateAt(sizes, index, func(s Size) Size {
		s.Label = set(p.Label, s.Label)
		s.SKU = applyString(p.SKU, s.SKU)
		s.Price = set(p.Price, s.Price)
		s.OriginalPrice = p.OriginalPrice.applyPtr(s.OriginalPrice)
		s.BedDimensions = p.BedDimensions.applyPtr(s.BedDimensions)
		s.InStock = set(p.InStock, s.InStock)
		s.LeadTime = applyString(p.LeadTime, s.LeadTime)
		return s
	})
}

// UpdateSizeDimension sets one dimension of the size at index. A nil value
// clears seat height and is ignored for the other fields.
func UpdateSizeDimension(sizes []Size, index int, field DimensionField, value *float64) []Size {
	return updateAt(sizes, index, func(s Size) Size {
		d := s.Dimensions
		switch field {
		case DimensionWidth:
			d.Width = set(value, d.Width)
		case DimensionHeight:
			d.Height = set(value, d.Height)
		case DimensionDepth:
			d.Depth = set(value, d.Depth)
		case DimensionSeatHeight:
			d.SeatHeight = clonePtr(value)
		}
		s.Dimensions = d
		return s
	})
}

// SetDefaultSize marks exactly the size at index as default.
func SetDefaultSize(sizes []Size, index int) []Size {
	if !inRange(sizes, index) {
		return sizes
	}
	out := make([]Size, len(sizes))
	for i, s := range sizes {
		s.IsDefault = i == index
		out[i] = s
	}
	return out
}

// MoveSize reorders the size list.
func MoveSize(sizes []Size, from, to int) []Size {
	return move(sizes, from, to)
}

// AddFabricCategory appends an unnamed, empty category.
func AddFabricCategory(cats []FabricCategory, newID IDFunc) []FabricCategory {
	out := make([]FabricCategory, 0, len(cats)+1)
	out = append(out, cats...)
	return append(out, FabricCategory{
		ID:        newID(),
		SortOrder: len(cats),
		Fabrics:   []Fabric{},
	})
}

// RemoveFabricCategory drops the category at index along with its fabrics.
func RemoveFabricCategory(cats []FabricCategory, index int) []FabricCategory {
	return removeAt(cats, index)
}

// RenameFabricCategory sets the category name. Fabrics already in the
// category keep the name they were created with.
func RenameFabricCategory(cats []FabricCategory, index int, name string) []FabricCategory {
	return updateAt(cats, index, func(c FabricCategory) FabricCategory {
		c.Name = name
		return c
	})
}

// MoveFabricCategory reorders categories.
func MoveFabricCategory(cats []FabricCategory, from, to int) []FabricCategory {
	return move(cats, from, to)
}

// AddFabric appends a fabric to the category at index. It inherits the
// category's current name and is never created as default.
func AddFabric(cats []FabricCategory, index int, newID IDFunc) []FabricCategory {
	return updateAt(cats, index, func(c FabricCategory) FabricCategory {
		fabrics := make([]Fabric, 0, len(c.Fabrics)+1)
		fabrics = append(fabrics, c.Fabrics...)
		c.Fabrics = append(fabrics, Fabric{
			ID:         newID(),
			HexColor:   domain.DefaultFabricHexColor,
			InStock:    true,
			Category:   c.Name,
			CategoryID: c.ID,
			SortOrder:  len(c.Fabrics),
		})
		return c
	})
}

// RemoveFabric drops one fabric from a category.
func RemoveFabric(cats []FabricCategory, index, fabric int) []FabricCategory {
	return updateAt(cats, index, func(c FabricCategory) FabricCategory {
		c.Fabrics = removeAt(c.Fabrics, fabric)
		return c
	})
}

// UpdateFabric applies p to one fabric. An edited fabric picks up its
// category's current name.
func UpdateFabric(cats []FabricCategory, index, fabric int, p FabricPatch) []FabricCategory {
	if !inRange(cats, index) || !inRange(cats[index].Fabrics, fabric) {
		return cats
	}
	return updateAt(cats, index, func(c FabricCategory) FabricCategory {
		c.Fabrics = updateAt(c.Fabrics, fabric, func(f Fabric) Fabric {
			f.Name = set(p.Name, f.Name)
			f.HexColor = set(p.HexColor, f.HexColor)
			f.TextureURL = applyString(p.TextureURL, f.TextureURL)
			f.Price = set(p.Price, f.Price)
			f.InStock = set(p.InStock, f.InStock)
			f.Category = c.Name
			f.CategoryID = c.ID
			return f
		})
		return c
	})
}

// SetDefaultFabric marks exactly one fabric of a category as default. Other
// categories are untouched.
func SetDefaultFabric(cats []FabricCategory, index, fabric int) []FabricCategory {
	if !inRange(cats, index) || !inRange(cats[index].Fabrics, fabric) {
		return cats
	}
	return updateAt(cats, index, func(c FabricCategory) FabricCategory {
		fabrics := slices.Clone(c.Fabrics)
		for i := range fabrics {
			fabrics[i].IsDefault = i == fabric
		}
		c.Fabrics = fabrics
		return c
	})
}
