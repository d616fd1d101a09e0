package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/event"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/repository/memory"
	"github.com/samijoehayek/opus-oakadmin/internal/upload"
)

// --- Mock catalog ---

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

// --- Mock uploader ---

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

// --- Test helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type editorFixture struct {
	svc      *EditorService
	repo     *memory.SessionRepository
	catalog  *mockCatalog
	uploader *mockUploader
}

func newEditorFixture() *editorFixture {
	repo := memory.NewSessionRepository(time.Hour)
	catalog := new(mockCatalog)
	uploader := new(mockUploader)
	coordinator := upload.NewCoordinator(uploader, memory.NewUploadLocks(), time.Minute, discardLogger())

	svc := NewEditorService(repo, catalog, coordinator, event.NewProducer(nil, discardLogger()), discardLogger())
	svc.newID = form.SequenceIDs("sess")
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	return &editorFixture{svc: svc, repo: repo, catalog: catalog, uploader: uploader}
}

func filePart(name string) domain.FilePart {
	return domain.FilePart{Name: name, ContentType: "application/octet-stream", Content: strings.NewReader(name)}
}

func ptr[T any](v T) *T {
	return &v
}
