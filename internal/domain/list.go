package domain

import (
	"net/url"
	"strconv"
)

// ProductListItem is the summary record returned by the list endpoint.
type ProductListItem struct {
	ID            string         `json:"id"`
	SKU           string         `json:"sku"`
	Slug          string         `json:"slug"`
	Name          string         `json:"name"`
	Tagline       string         `json:"tagline,omitempty"`
	Category      string         `json:"category"`
	BasePrice     float64        `json:"basePrice"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	IsActive      bool           `json:"isActive"`
	IsFeatured    bool           `json:"isFeatured"`
	Images        []ProductImage `json:"images,omitempty"`
	HasModel      bool           `json:"has3DModel,omitempty"`
}

// ProductListResponse is one page of the catalog list endpoint.
type ProductListResponse struct {
	Products   []ProductListItem `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// ProductQuery holds list filters. Nil pointers and empty strings are omitted
// from the outgoing query string.
type ProductQuery struct {
	Page       int
	Limit      int
	Search     string
	Category   string
	IsFeatured *bool
	IsActive   *bool
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string
}

// Values encodes the query the way the catalog API expects it.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.IsFeatured != nil {
		v.Set("isFeatured", strconv.FormatBool(*q.IsFeatured))
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	return v
}
