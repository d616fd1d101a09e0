package http

import (
	"fmt"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

// --- Request DTOs ---

// OpenSessionRequest is the JSON body for POST /sessions. An empty productId
// opens a create session.
type OpenSessionRequest struct {
	ProductID string `json:"productId" validate:"omitempty,max=200"`
}

// SetTabRequest is the JSON body for PUT /sessions/{id}/tab.
type SetTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=basic media variants details"`
}

// CareInstructionRequest is the JSON body for care instruction writes.
type CareInstructionRequest struct {
	Value string `json:"value" validate:"max=500"`
}

// AltTextRequest is the JSON body for PATCH /sessions/{id}/images/{index}.
type AltTextRequest struct {
	AltText string `json:"altText" validate:"max=300"`
}

// MoveRequest is the JSON body of every reorder endpoint.
type MoveRequest struct {
	To *int `json:"to" validate:"required,gte=0"`
}

// DimensionRequest sets one size dimension. A null value clears seatHeight.
type DimensionRequest struct {
	Value *float64 `json:"value" validate:"omitempty,gte=0"`
}

// RenameRequest is the JSON body for renaming a fabric category.
type RenameRequest struct {
	Name string `json:"name" validate:"max=100"`
}

// --- Option checks ---

func checkBasicPatch(p form.BasicPatch, opts *domain.FormOptions) error {
	if err := p.Check(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if p.Category != nil && !opts.HasCategory(*p.Category) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown category %q", *p.Category))
	}
	return nil
}

func checkModelPatch(p form.ModelPatch, opts *domain.FormOptions) error {
	if p.EnvironmentPreset != nil && !opts.HasEnvironmentPreset(*p.EnvironmentPreset) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown environment preset %q", *p.EnvironmentPreset))
	}
	return nil
}

func checkSizePatch(p form.SizePatch) error {
	if err := p.Check(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

func checkFeaturePatch(p form.FeaturePatch, opts *domain.FormOptions) error {
	if p.Icon != nil && !opts.HasFeatureIcon(*p.Icon) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown feature icon %q", *p.Icon))
	}
	return nil
}
