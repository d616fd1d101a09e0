package form

import "slices"

// ApplyBasicPatch returns b with every field present in p replaced.
func ApplyBasicPatch(b Basic, p BasicPatch) Basic {
	b = b.clone()
	b.SKU = set(p.SKU, b.SKU)
	b.Name = set(p.Name, b.Name)
	b.Tagline = set(p.Tagline, b.Tagline)
	b.Description = set(p.Description, b.Description)
	b.LongDescription = set(p.LongDescription, b.LongDescription)
	b.Category = set(p.Category, b.Category)
	b.Subcategory = set(p.Subcategory, b.Subcategory)
	b.BasePrice = set(p.BasePrice, b.BasePrice)
	b.OriginalPrice = p.OriginalPrice.applyPtr(b.OriginalPrice)
	b.IsActive = set(p.IsActive, b.IsActive)
	b.IsFeatured = set(p.IsFeatured, b.IsFeatured)
	b.LeadTimeDays = set(p.LeadTimeDays, b.LeadTimeDays)
	b.DeliveryPrice = set(p.DeliveryPrice, b.DeliveryPrice)
	b.DeliveryInfo = set(p.DeliveryInfo, b.DeliveryInfo)
	b.ReturnDays = set(p.ReturnDays, b.ReturnDays)
	b.ReturnInfo = set(p.ReturnInfo, b.ReturnInfo)
	b.WarrantyYears = set(p.WarrantyYears, b.WarrantyYears)
	b.WarrantyInfo = set(p.WarrantyInfo, b.WarrantyInfo)
	b.MadeIn = set(p.MadeIn, b.MadeIn)
	return b
}

// AddCareInstruction appends value to the care instructions.
func AddCareInstruction(b Basic, value string) Basic {
	b = b.clone()
	b.CareInstructions = append(b.CareInstructions, value)
	return b
}

// RemoveCareInstruction drops the instruction at index.
func RemoveCareInstruction(b Basic, index int) Basic {
	if !inRange(b.CareInstructions, index) {
		return b
	}
	b.CareInstructions = removeAt(b.CareInstructions, index)
	return b
}

// UpdateCareInstruction replaces the instruction at index.
func UpdateCareInstruction(b Basic, index int, value string) Basic {
	if !inRange(b.CareInstructions, index) {
		return b
	}
	b.CareInstructions = slices.Clone(b.CareInstructions)
	b.CareInstructions[index] = value
	return b
}
