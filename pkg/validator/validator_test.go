package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fabricRequest struct {
	Name     string  `json:"name" validate:"required"`
	HexColor string  `json:"hexColor" validate:"omitempty,hexcolor"`
	Price    float64 `json:"price" validate:"gte=0"`
	Preset   string  `json:"environmentPreset" validate:"omitempty,oneof=STUDIO CITY"`
	Internal string  `json:"-" validate:"omitempty,max=3"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(fabricRequest{Name: "Linen", HexColor: "#CCCCCC", Price: 10, Preset: "CITY"})
	assert.NoError(t, err)
}

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	err := Validate(fabricRequest{HexColor: "grey", Price: -1, Preset: "MOON", Internal: "toolong"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a hex color such as #CCCCCC", fields["hexColor"])
	assert.Equal(t, "must be greater than or equal to 0", fields["price"])
	assert.Equal(t, "must be one of: STUDIO CITY", fields["environmentPreset"])
	assert.Equal(t, "must be at most 3", fields["Internal"])
}

func TestValidationError_ErrorJoinsMessages(t *testing.T) {
	err := Validate(fabricRequest{Price: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name' is required")
	assert.Contains(t, err.Error(), "field 'price' must be greater than or equal to 0")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Velvet","price":5}`))
		var dst fabricRequest
		require.NoError(t, DecodeAndValidate(req, &dst))
		assert.Equal(t, "Velvet", dst.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var dst fabricRequest
		err := DecodeAndValidate(req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("empty body is validated as zero value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		var dst fabricRequest
		err := DecodeAndValidate(req, &dst)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("trailing data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Velvet"} {"name":"Linen"}`))
		var dst fabricRequest
		err := DecodeAndValidate(req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected data after JSON value")
	})

	t.Run("trailing newline is fine", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{\"name\":\"Velvet\"}\n"))
		var dst fabricRequest
		require.NoError(t, DecodeAndValidate(req, &dst))
	})
}
