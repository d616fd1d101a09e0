package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
	"github.com/samijoehayek/opus-oakadmin/pkg/httpclient"
	"github.com/samijoehayek/opus-oakadmin/pkg/middleware"
	"github.com/samijoehayek/opus-oakadmin/pkg/tracing"
)

// Fallback messages used when the catalog answers without one.
const (
	MsgFetchFailed  = "failed to load product"
	MsgListFailed   = "failed to load products"
	MsgSaveFailed   = "failed to save product"
	MsgDeleteFailed = "failed to delete product"
	MsgUploadFailed = "upload failed"
	msgUnreachable  = "catalog service is unreachable"
	msgUnavailable  = "catalog service is temporarily unavailable, please retry shortly"
)

var tracer = tracing.Tracer("catalog")

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the catalog REST API on behalf of the signed-in admin.
// The caller's bearer token is forwarded on every request.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// GetProduct fetches the full product document by id or slug.
func (c *Client) GetProduct(ctx context.Context, idOrSlug string) (_ *domain.Product, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.GetProduct", attribute.String("product.key", idOrSlug))
	defer func() { end(err) }()

	var p domain.Product
	path := "/products/" + url.PathEscape(idOrSlug) + "/detail"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &p, MsgFetchFailed); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", idOrSlug)
		}
		return nil, err
	}
	return &p, nil
}

// ListProducts returns one page of product summaries.
func (c *Client) ListProducts(ctx context.Context, q domain.ProductQuery) (_ *domain.ProductListResponse, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.ListProducts")
	defer func() { end(err) }()

	path := "/products"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var resp domain.ProductListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp, MsgListFailed); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = []domain.ProductListItem{}
	}
	return &resp, nil
}

// CreateProduct persists a new product from an assembled payload.
func (c *Client) CreateProduct(ctx context.Context, body form.Payload) (_ *domain.Product, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.CreateProduct")
	defer func() { end(err) }()

	var p domain.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", body, &p, MsgSaveFailed); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces product id with an assembled payload.
func (c *Client) UpdateProduct(ctx context.Context, id string, body form.Payload) (_ *domain.Product, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.UpdateProduct", attribute.String("product.id", id))
	defer func() { end(err) }()

	var p domain.Product
	if err := c.doJSON(ctx, http.MethodPut, "/products/"+url.PathEscape(id), body, &p, MsgSaveFailed); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes product id.
func (c *Client) DeleteProduct(ctx context.Context, id string) (err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.DeleteProduct", attribute.String("product.id", id))
	defer func() { end(err) }()

	err = c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, MsgDeleteFailed)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound("product", id)
	}
	return err
}

// UploadImages sends a batch of image files and returns one reference per file.
func (c *Client) UploadImages(ctx context.Context, files []domain.FilePart) (_ []domain.UploadedFile, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.UploadImages", attribute.Int("upload.files", len(files)))
	defer func() { end(err) }()

	body, contentType, err := encodeMultipart("files", files)
	if err != nil {
		return nil, err
	}
	var out []domain.UploadedFile
	if err := c.do(ctx, http.MethodPost, "/uploads/images", body, contentType, &out, MsgUploadFailed); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadModel sends a single 3D asset file.
func (c *Client) UploadModel(ctx context.Context, file domain.FilePart) (_ *domain.UploadedFile, err error) {
	ctx, end := tracing.StartSpan(ctx, tracer, "catalog.UploadModel", attribute.String("upload.name", file.Name))
	defer func() { end(err) }()

	body, contentType, err := encodeMultipart("file", []domain.FilePart{file})
	if err != nil {
		return nil, err
	}
	var out domain.UploadedFile
	if err := c.do(ctx, http.MethodPost, "/uploads/model", body, contentType, &out, MsgUploadFailed); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out, fallback)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, fallback string) error {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("create %s request: %w", method, err))
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := middleware.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return c.transportError(ctx, method, path, err)
	}

	if !httpclient.IsSuccess(resp.StatusCode) {
		appErr := httpclient.ParseResponseError(resp, fallback)
		c.logger.WarnContext(ctx, "catalog request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("error", appErr.Error()),
		)
		return appErr
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Upstream(fallback, fmt.Errorf("decode %s %s response: %w", method, path, err))
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, method, path string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.logger.ErrorContext(ctx, "catalog request error",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
	if httpclient.IsBreakerError(err) {
		return apperrors.ServiceUnavailable(msgUnavailable, err)
	}
	return apperrors.Upstream(msgUnreachable, err)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(field string, files []domain.FilePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", apperrors.Internal(fmt.Errorf("create multipart part: %w", err))
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", apperrors.InvalidInput(fmt.Sprintf("could not read file %q", f.Name))
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("close multipart writer: %w", err))
	}
	return &buf, mw.FormDataContentType(), nil
}
