package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/service"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
	"github.com/samijoehayek/opus-oakadmin/pkg/pagination"
)

// ProductHandler serves the product list page and the form option catalog.
type ProductHandler struct {
	products *service.ProductService
	options  *domain.FormOptions
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(products *service.ProductService, options *domain.FormOptions, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		options:  options,
		logger:   logger,
	}
}

// Routes registers the product endpoints on r.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/form-options", h.FormOptions)
	r.Get("/products", h.List)
	r.Delete("/products/{id}", h.Delete)
}

// FormOptions handles GET /form-options
func (h *ProductHandler) FormOptions(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.options)
}

// List handles GET /products?page&limit&search&category&isFeatured&isActive&minPrice&maxPrice&sortBy
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.products.List(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, result)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) parseQuery(r *http.Request) (domain.ProductQuery, error) {
	page := pagination.FromRequest(r)
	values := r.URL.Query()

	q := domain.ProductQuery{
		Page:     page.Page,
		Limit:    page.Limit,
		Search:   values.Get("search"),
		Category: values.Get("category"),
		SortBy:   values.Get("sortBy"),
	}
	if q.Category != "" && !h.options.HasCategory(q.Category) {
		return q, apperrors.InvalidInput("unknown category " + q.Category)
	}

	var err error
	if q.IsFeatured, err = optionalBool(values.Get("isFeatured"), "isFeatured"); err != nil {
		return q, err
	}
	if q.IsActive, err = optionalBool(values.Get("isActive"), "isActive"); err != nil {
		return q, err
	}
	if q.MinPrice, err = optionalFloat(values.Get("minPrice"), "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = optionalFloat(values.Get("maxPrice"), "maxPrice"); err != nil {
		return q, err
	}
	return q, nil
}

func optionalBool(raw, name string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(name + " must be true or false")
	}
	return &v, nil
}

func optionalFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperrors.InvalidInput(name + " must be a non-negative number")
	}
	return &v, nil
}
