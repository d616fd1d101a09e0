package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
)

func uploaded(names ...string) []domain.UploadedFile {
	out := make([]domain.UploadedFile, len(names))
	for i, n := range names {
		out[i] = domain.UploadedFile{
			URL:          "https://cdn.example.com/" + n,
			Filename:     "stored-" + n,
			OriginalName: n,
			Size:         1024,
			Type:         "image",
		}
	}
	return out
}

func primaryCount(images []Image) int {
	var n int
	for _, img := range images {
		if img.IsPrimary {
			n++
		}
	}
	return n
}

// --- Images ---

func TestAppendUploadedImages_FirstOfFirstBatchIsPrimary(t *testing.T) {
	images := AppendUploadedImages([]Image{}, uploaded("a.jpg", "b.jpg"))

	require.Len(t, images, 2)
	assert.True(t, images[0].IsPrimary)
	assert.False(t, images[1].IsPrimary)
	assert.Equal(t, "a.jpg", images[0].AltText)
	assert.Equal(t, "https://cdn.example.com/b.jpg", images[1].URL)
	assert.Equal(t, 1, images[1].SortOrder)
	assert.Empty(t, images[0].ID)
}

func TestAppendUploadedImages_LaterBatchNeverPrimary(t *testing.T) {
	images := AppendUploadedImages(nil, uploaded("a.jpg"))
	images = AppendUploadedImages(images, uploaded("c.jpg", "d.jpg"))

	require.Len(t, images, 3)
	assert.Equal(t, 1, primaryCount(images))
	assert.True(t, images[0].IsPrimary)
	assert.Equal(t, 1, images[1].SortOrder)
	assert.Equal(t, 2, images[2].SortOrder)
}

func TestAppendUploadedImages_DoesNotMutateInput(t *testing.T) {
	in := make([]Image, 1, 4)
	in[0] = Image{URL: "x"}
	_ = AppendUploadedImages(in, uploaded("a.jpg"))
	assert.Len(t, in, 1)
	assert.Equal(t, Image{}, in[:2][1])
}

func TestRemoveImage(t *testing.T) {
	base := AppendUploadedImages(nil, uploaded("a", "b", "c"))

	tests := []struct {
		name        string
		images      []Image
		index       int
		wantURLs    []string
		wantPrimary int
	}{
		{"primary promotes new first", base, 0, []string{"b", "c"}, 0},
		{"non primary keeps primary", base, 2, []string{"a", "b"}, 0},
		{"out of range is no-op", base, 7, []string{"a", "b", "c"}, 0},
		{"negative is no-op", base, -1, []string{"a", "b", "c"}, 0},
		{"last image leaves empty", AppendUploadedImages(nil, uploaded("a")), 0, []string{}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveImage(tt.images, tt.index)
			urls := make([]string, len(got))
			for i, img := range got {
				urls[i] = img.AltText
			}
			assert.Equal(t, tt.wantURLs, urls)
			if tt.wantPrimary < 0 {
				assert.Zero(t, primaryCount(got))
				return
			}
			assert.Equal(t, 1, primaryCount(got))
			assert.True(t, got[tt.wantPrimary].IsPrimary)
		})
	}
	assert.True(t, base[0].IsPrimary, "input untouched")
	assert.False(t, base[1].IsPrimary, "input untouched")
}

func TestSetPrimaryImage_TotalReset(t *testing.T) {
	images := AppendUploadedImages(nil, uploaded("a", "b", "c"))
	images[1].IsPrimary = true // corrupt on purpose

	got := SetPrimaryImage(images, 2)
	assert.Equal(t, 1, primaryCount(got))
	assert.True(t, got[2].IsPrimary)

	assert.Equal(t, got, SetPrimaryImage(got, 2), "idempotent")
	assert.Equal(t, got, SetPrimaryImage(got, 3), "out of range")
}

func TestUpdateImageAltTextAndMove(t *testing.T) {
	images := AppendUploadedImages(nil, uploaded("a", "b", "c"))

	got := UpdateImageAltText(images, 1, "Side view")
	assert.Equal(t, "Side view", got[1].AltText)
	assert.Equal(t, "b", images[1].AltText)

	moved := MoveImage(got, 0, 2)
	assert.Equal(t, []string{"Side view", "c", "a"}, []string{moved[0].AltText, moved[1].AltText, moved[2].AltText})
	assert.True(t, moved[2].IsPrimary, "primary flag travels with the image")
}

// --- Model ---

func TestApplyModelUpload_LowCreatesModel(t *testing.T) {
	m, ok := ApplyModelUpload(nil, domain.ModelVariantLow, "low.glb")
	require.True(t, ok)
	require.NotNil(t, m)
	assert.Equal(t, "low.glb", m.LowPolyURL)
	assert.Equal(t, "STUDIO", m.EnvironmentPreset)
	assert.Equal(t, 1.0, m.Scale)
	assert.True(t, m.AutoRotate)
}

func TestApplyModelUpload_LowKeepsSettings(t *testing.T) {
	cur := &Model{LowPolyURL: "old.glb", HighPolyURL: "high.glb", EnvironmentPreset: "NIGHT", Scale: 2}
	m, ok := ApplyModelUpload(cur, domain.ModelVariantLow, "new.glb")
	require.True(t, ok)
	assert.Equal(t, "new.glb", m.LowPolyURL)
	assert.Equal(t, "high.glb", m.HighPolyURL)
	assert.Equal(t, "NIGHT", m.EnvironmentPreset)
	assert.Equal(t, "old.glb", cur.LowPolyURL)
}

func TestApplyModelUpload_HighRequiresModel(t *testing.T) {
	m, ok := ApplyModelUpload(nil, domain.ModelVariantHigh, "high.glb")
	assert.False(t, ok)
	assert.Nil(t, m)

	m, ok = ApplyModelUpload(&Model{LowPolyURL: "low.glb"}, domain.ModelVariantHigh, "high.glb")
	assert.True(t, ok)
	assert.Equal(t, "high.glb", m.HighPolyURL)
	assert.Equal(t, "low.glb", m.LowPolyURL)
}

func TestRemoveModelAsset_Asymmetry(t *testing.T) {
	cur := &Model{LowPolyURL: "low.glb", HighPolyURL: "high.glb", EnvironmentPreset: "PARK", Scale: 1.5}

	low := RemoveModelAsset(cur, domain.ModelVariantLow)
	require.NotNil(t, low, "model survives low-poly removal")
	assert.Empty(t, low.LowPolyURL)
	assert.Equal(t, "high.glb", low.HighPolyURL)
	assert.Equal(t, "PARK", low.EnvironmentPreset)

	high := RemoveModelAsset(cur, domain.ModelVariantHigh)
	assert.Equal(t, "low.glb", high.LowPolyURL)
	assert.Empty(t, high.HighPolyURL)

	assert.Nil(t, RemoveModelAsset(nil, domain.ModelVariantLow))
}

func TestApplyModelPatch(t *testing.T) {
	assert.Nil(t, ApplyModelPatch(nil, ModelPatch{Scale: ptr(2.0)}), "no model, no-op")

	cur := &Model{LowPolyURL: "low.glb", PosterURL: "poster.jpg", EnvironmentPreset: "STUDIO", Scale: 1, AutoRotate: true}
	got := ApplyModelPatch(cur, ModelPatch{
		PosterURL:         Null[string](),
		EnvironmentPreset: ptr("SUNSET"),
		AutoRotate:        ptr(false),
	})
	assert.Empty(t, got.PosterURL)
	assert.Equal(t, "SUNSET", got.EnvironmentPreset)
	assert.Equal(t, 1.0, got.Scale)
	assert.False(t, got.AutoRotate)
	assert.Equal(t, "poster.jpg", cur.PosterURL)
}

// --- Basic ---

func TestApplyBasicPatch(t *testing.T) {
	b := InitBasic(sampleProduct())

	got := ApplyBasicPatch(b, BasicPatch{
		Name:          ptr("Harbour Sofa II"),
		BasePrice:     ptr(2500.0),
		OriginalPrice: Null[float64](),
		IsActive:      ptr(false),
	})

	assert.Equal(t, "Harbour Sofa II", got.Name)
	assert.Equal(t, 2500.0, got.BasePrice)
	assert.Nil(t, got.OriginalPrice)
	assert.False(t, got.IsActive)
	assert.Equal(t, b.SKU, got.SKU)
	assert.Equal(t, b.WarrantyYears, got.WarrantyYears)
	require.NotNil(t, b.OriginalPrice, "input untouched")

	got = ApplyBasicPatch(got, BasicPatch{OriginalPrice: Some(2999.0)})
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, 2999.0, *got.OriginalPrice)
}

func TestCareInstructions(t *testing.T) {
	b := InitBasic(nil)

	b = AddCareInstruction(b, "")
	b = AddCareInstruction(b, "Dust weekly")
	b = UpdateCareInstruction(b, 0, "Avoid sunlight")
	assert.Equal(t, []string{"Avoid sunlight", "Dust weekly"}, b.CareInstructions)

	before := b
	b = RemoveCareInstruction(b, 0)
	assert.Equal(t, []string{"Dust weekly"}, b.CareInstructions)
	assert.Equal(t, []string{"Avoid sunlight", "Dust weekly"}, before.CareInstructions)

	assert.Equal(t, b, UpdateCareInstruction(b, 5, "x"))
	assert.Equal(t, b, RemoveCareInstruction(b, -1))
}
