package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/event"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/repository/memory"
	"github.com/samijoehayek/opus-oakadmin/internal/service"
	"github.com/samijoehayek/opus-oakadmin/internal/upload"
	"github.com/samijoehayek/opus-oakadmin/pkg/health"
	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
	"github.com/samijoehayek/opus-oakadmin/pkg/middleware"
)

const testSecret = "test-secret"

// ============================================================================
// Mocks
// ============================================================================

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) CreateProduct(ctx context.Context, body form.Payload) (*domain.Product, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, id string, body form.Payload) (*domain.Product, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductListResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductListResponse), args.Error(1)
}

func (m *mockCatalog) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadImages(ctx context.Context, files []domain.FilePart) ([]domain.UploadedFile, error) {
	args := m.Called(ctx, files)
	if v := args.Get(0); v != nil {
		return v.([]domain.UploadedFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploader) UploadModel(ctx context.Context, file domain.FilePart) (*domain.UploadedFile, error) {
	args := m.Called(ctx, file)
	if v := args.Get(0); v != nil {
		return v.(*domain.UploadedFile), args.Error(1)
	}
	return nil, args.Error(1)
}

// ============================================================================
// Test environment
// ============================================================================

type testEnv struct {
	router   http.Handler
	catalog  *mockCatalog
	uploader *mockUploader
	repo     *memory.SessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewSessionRepository(time.Hour)
	catalog := new(mockCatalog)
	uploader := new(mockUploader)
	coordinator := upload.NewCoordinator(uploader, memory.NewUploadLocks(), time.Minute, logger)
	producer := event.NewProducer(nil, logger)

	opts, err := domain.LoadFormOptions()
	require.NoError(t, err)

	sessions := NewSessionHandler(service.NewEditorService(repo, catalog, coordinator, producer, logger), opts, 1<<20, logger)
	sessions.newID = form.SequenceIDs("tmp")
	products := NewProductHandler(service.NewProductService(catalog, producer, logger), opts, logger)

	router := NewRouter(ctx, sessions, products, health.NewHandler(),
		middleware.NewHTTPMetrics(prometheus.NewRegistry(), ServiceName),
		middleware.NewJWTValidator(testSecret),
		RouterConfig{AdminRoles: []string{"ADMIN", "SUPER_ADMIN"}, RateLimitRPS: 1000, RateLimitBurst: 1000},
		logger,
	)

	return &testEnv{router: router, catalog: catalog, uploader: uploader, repo: repo}
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

// call sends a JSON request as the default admin.
func (e *testEnv) call(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return e.callAs(t, token(t, "admin-1", "ADMIN"), method, path, body)
}

func (e *testEnv) callAs(t *testing.T, tok, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, field string, names ...string) *httptest.ResponseRecorder {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for _, name := range names {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, name))
		h.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("data-" + name))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token(t, "admin-1", "ADMIN"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T                       `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

// openSession creates a create-mode session and returns its ID.
func (e *testEnv) openSession(t *testing.T) string {
	t.Helper()
	rec := e.call(t, http.MethodPost, "/api/v1/admin/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[service.SessionView](t, rec).Data.ID
}

func ptr[T any](v T) *T {
	return &v
}
