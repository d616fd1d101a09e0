package form

import (
	"errors"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

// ErrNoModel is returned when a high-poly asset targets a session without a model.
var ErrNoModel = errors.New("upload a low-poly model before the high-poly model")

func (s *Session) PatchBasic(p BasicPatch) {
	s.State.Basic = ApplyBasicPatch(s.State.Basic, p)
}

func (s *Session) AddCareInstruction(value string) {
	s.State.Basic = AddCareInstruction(s.State.Basic, value)
}

func (s *Session) UpdateCareInstruction(index int, value string) {
	s.State.Basic = UpdateCareInstruction(s.State.Basic, index, value)
}

func (s *Session) RemoveCareInstruction(index int) {
	s.State.Basic = RemoveCareInstruction(s.State.Basic, index)
}

// AddUploadedImages merges an image upload result.
func (s *Session) AddUploadedImages(files []domain.UploadedFile) {
	s.State.Images = AppendUploadedImages(s.State.Images, files)
}

func (s *Session) RemoveImage(index int) {
	s.State.Images = RemoveImage(s.State.Images, index)
}

func (s *Session) SetPrimaryImage(index int) {
	s.State.Images = SetPrimaryImage(s.State.Images, index)
}

func (s *Session) UpdateImageAltText(index int, alt string) {
	s.State.Images = UpdateImageAltText(s.State.Images, index, alt)
}

func (s *Session) MoveImage(from, to int) {
	s.State.Images = MoveImage(s.State.Images, from, to)
}

// AttachModelAsset merges a model upload result.
func (s *Session) AttachModelAsset(variant domain.ModelVariant, url string) error {
	m, ok := ApplyModelUpload(s.State.Model, variant, url)
	if !ok {
		return ErrNoModel
	}
	s.State.Model = m
	return nil
}

func (s *Session) RemoveModelAsset(variant domain.ModelVariant) {
	s.State.Model = RemoveModelAsset(s.State.Model, variant)
}

func (s *Session) PatchModel(p ModelPatch) {
	s.State.Model = ApplyModelPatch(s.State.Model, p)
}

func (s *Session) UpdateSize(index int, p SizePatch) {
	s.State.Sizes = UpdateSize(s.State.Sizes, index, p)
}

func (s *Session) UpdateSizeDimension(index int, field DimensionField, value *float64) {
	s.State.Sizes = UpdateSizeDimension(s.State.Sizes, index, field, value)
}

func (s *Session) SetDefaultSize(index int) {
	s.State.Sizes = SetDefaultSize(s.State.Sizes, index)
}

func (s *Session) MoveSize(from, to int) {
	s.State.Sizes = MoveSize(s.State.Sizes, from, to)
}

func (s *Session) RemoveSize(index int) {
	s.State.Sizes = RemoveSize(s.State.Sizes, index)
}

func (s *Session) AddFabricCategory(newID IDFunc) {
	s.State.FabricCategories = AddFabricCategory(s.State.FabricCategories, newID)
}

func (s *Session) RenameFabricCategory(index int, name string) {
	s.State.FabricCategories = RenameFabricCategory(s.State.FabricCategories, index, name)
}

func (s *Session) MoveFabricCategory(from, to int) {
	s.State.FabricCategories = MoveFabricCategory(s.State.FabricCategories, from, to)
}

func (s *Session) RemoveFabricCategory(index int) {
	s.State.FabricCategories = RemoveFabricCategory(s.State.FabricCategories, index)
}

func (s *Session) AddFabric(category int, newID IDFunc) {
	s.State.FabricCategories = AddFabric(s.State.FabricCategories, category, newID)
}

func (s *Session) UpdateFabric(category, fabric int, p FabricPatch) {
	s.State.FabricCategories = UpdateFabric(s.State.FabricCategories, category, fabric, p)
}

func (s *Session) SetDefaultFabric(category, fabric int) {
	s.State.FabricCategories = SetDefaultFabric(s.State.FabricCategories, category, fabric)
}

func (s *Session) RemoveFabric(category, fabric int) {
	s.State.FabricCategories = RemoveFabric(s.State.FabricCategories, category, fabric)
}

func (s *Session) AddFeature(newID IDFunc) {
	s.State.Features = AddFeature(s.State.Features, newID)
}

func (s *Session) UpdateFeature(index int, p FeaturePatch) {
	s.State.Features = UpdateFeature(s.State.Features, index, p)
}

func (s *Session) MoveFeature(from, to int) {
	s.State.Features = MoveFeature(s.State.Features, from, to)
}

func (s *Session) RemoveFeature(index int) {
	s.State.Features = RemoveFeature(s.State.Features, index)
}

func (s *Session) AddSpecification() {
	s.State.Specifications = AddSpecification(s.State.Specifications)
}

func (s *Session) UpdateSpecification(index int, p SpecificationPatch) {
	s.State.Specifications = UpdateSpecification(s.State.Specifications, index, p)
}

func (s *Session) MoveSpecification(from, to int) {
	s.State.Specifications = MoveSpecification(s.State.Specifications, from, to)
}

func (s *Session) RemoveSpecification(index int) {
	s.State.Specifications = RemoveSpecification(s.State.Specifications, index)
}
