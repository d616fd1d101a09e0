package form

import "github.com/samijoehayek/opus-oakadmin/internal/domain"

// AppendUploadedImages appends one image per uploaded file. The first file of
// a batch becomes primary only when the gallery was empty.
func AppendUploadedImages(images []Image, files []domain.UploadedFile) []Image {
	out := make([]Image, 0, len(images)+len(files))
	out = append(out, images...)
	for idx, f := range files {
		out = append(out, Image{
			URL:       f.URL,
			AltText:   f.OriginalName,
			IsPrimary: len(images) == 0 && idx == 0,
			SortOrder: len(images) + idx,
		})
	}
	return out
}

// RemoveImage drops the image at index. Removing the primary image promotes
// the new first image.
func RemoveImage(images []Image, index int) []Image {
	if !inRange(images, index) {
		return images
	}
	wasPrimary := images[index].IsPrimary
	out := removeAt(images, index)
	if wasPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out
}

// SetPrimaryImage marks exactly the image at index as primary.
func SetPrimaryImage(images []Image, index int) []Image {
	if !inRange(images, index) {
		return images
	}
	out := make([]Image, len(images))
	for i, img := range images {
		img.IsPrimary = i == index
		out[i] = img
	}
	return out
}

// UpdateImageAltText replaces the alt text of the image at index.
func UpdateImageAltText(images []Image, index int, alt string) []Image {
	return updateAt(images, index, func(img Image) Image {
		img.AltText = alt
		return img
	})
}

// MoveImage reorders the gallery. Sort order follows position on submission.
func MoveImage(images []Image, from, to int) []Image {
	return move(images, from, to)
}

// ApplyModelUpload stores an uploaded asset URL. A low-poly upload creates the
// model with default viewer settings when absent; a high-poly upload requires
// an existing model and reports false otherwise.
func ApplyModelUpload(m *Model, variant domain.ModelVariant, url string) (*Model, bool) {
	switch variant {
	case domain.ModelVariantLow:
		next := Model{
			EnvironmentPreset: domain.DefaultEnvironmentPreset,
			Scale:             domain.DefaultModelScale,
			AutoRotate:        true,
		}
		if m != nil {
			next = *m
		}
		next.LowPolyURL = url
		return &next, true
	case domain.ModelVariantHigh:
		if m == nil {
			return nil, false
		}
		next := *m
		next.HighPolyURL = url
		return &next, true
	default:
		return m, false
	}
}

// RemoveModelAsset clears one asset URL. The model itself is kept in both
// cases, so removing the low-poly asset leaves settings and any high-poly URL.
func RemoveModelAsset(m *Model, variant domain.ModelVariant) *Model {
	if m == nil {
		return nil
	}
	next := *m
	switch variant {
	case domain.ModelVariantLow:
		next.LowPolyURL = ""
	case domain.ModelVariantHigh:
		next.HighPolyURL = ""
	}
	return &next
}

// ApplyModelPatch updates viewer settings. It is a no-op without a model.
func ApplyModelPatch(m *Model, p ModelPatch) *Model {
	if m == nil {
		return nil
	}
	next := *m
	next.PosterURL = applyString(p.PosterURL, next.PosterURL)
	next.EnvironmentPreset = set(p.EnvironmentPreset, next.EnvironmentPreset)
	next.Scale = set(p.Scale, next.Scale)
	next.AutoRotate = set(p.AutoRotate, next.AutoRotate)
	return &next
}
