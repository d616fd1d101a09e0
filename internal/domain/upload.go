package domain

import "io"

// UploadKind distinguishes the two upload endpoints.
type UploadKind string

const (
	UploadKindImages UploadKind = "images"
	UploadKindModel  UploadKind = "model"
)

// UploadedFile is the reference the upload endpoint returns per stored file.
type UploadedFile struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// FilePart is one binary payload to upload.
type FilePart struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ModelVariant selects which 3D asset an upload or removal targets.
type ModelVariant string

const (
	ModelVariantLow  ModelVariant = "low"
	ModelVariantHigh ModelVariant = "high"
)

// ParseModelVariant validates a variant name.
func ParseModelVariant(s string) (ModelVariant, bool) {
	switch ModelVariant(s) {
	case ModelVariantLow, ModelVariantHigh:
		return ModelVariant(s), true
	default:
		return "", false
	}
}
