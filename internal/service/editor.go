package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/event"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/repository"
	"github.com/samijoehayek/opus-oakadmin/internal/upload"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
	"github.com/samijoehayek/opus-oakadmin/pkg/logger"
	"github.com/samijoehayek/opus-oakadmin/pkg/slug"
)

// maxMutateAttempts bounds the optimistic-locking retry loop of a session write.
const maxMutateAttempts = 3

var (
	sessionsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oakadmin_sessions_opened_total",
		Help: "Editing sessions opened, by mode.",
	}, []string{"mode"})

	sessionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oakadmin_session_operations_total",
		Help: "Session operations by action and outcome (ok, conflict, error).",
	}, []string{"action", "outcome"})

	submitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oakadmin_submits_total",
		Help: "Session submissions by mode and outcome.",
	}, []string{"mode", "outcome"})
)

// Catalog is the subset of the catalog API the editor depends on.
type Catalog interface {
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, body form.Payload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, body form.Payload) (*domain.Product, error)
}

// Uploading carries the in-flight upload flags of a session.
type Uploading struct {
	Images bool `json:"images"`
	Model  bool `json:"model"`
}

// SessionView is a session as presented to its owner.
type SessionView struct {
	*form.Session
	Uploading Uploading `json:"uploading"`
}

// EditorService implements the lifecycle and operations of product editing
// sessions.
type EditorService struct {
	repo     repository.SessionRepository
	catalog  Catalog
	uploads  *upload.Coordinator
	producer *event.Producer
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewEditorService creates a new editor service.
func NewEditorService(repo repository.SessionRepository, catalog Catalog, uploads *upload.Coordinator, producer *event.Producer, logger *slog.Logger) *EditorService {
	return &EditorService{
		repo:     repo,
		catalog:  catalog,
		uploads:  uploads,
		producer: producer,
		logger:   logger,
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Open starts a session for ownerID. An empty productKey opens a create
// session; otherwise the product is fetched by ID or slug and a missing
// product yields NotFound without creating anything.
func (s *EditorService) Open(ctx context.Context, ownerID, productKey string) (*SessionView, error) {
	if ownerID == "" {
		return nil, apperrors.Unauthorized("user id is required")
	}

	var product *domain.Product
	if productKey != "" {
		key := lookupKey(productKey)
		if key == "" {
			return nil, apperrors.InvalidInput("product id or slug is invalid")
		}
		p, err := s.catalog.GetProduct(ctx, key)
		if err != nil {
			return nil, err
		}
		product = p
	}

	sess := form.NewSession(s.newID(), ownerID, product, s.now())
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	sessionsOpened.WithLabelValues(string(sess.Mode)).Inc()

	ctx = logger.WithSessionID(ctx, sess.ID)
	s.log(ctx).InfoContext(ctx, "editing session opened",
		slog.String("mode", string(sess.Mode)),
		slog.String("product_id", sess.ProductID),
	)

	return s.view(ctx, sess), nil
}

// Get returns the owner's view of a session.
func (s *EditorService) Get(ctx context.Context, ownerID, id string) (*SessionView, error) {
	sess, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

// Apply runs fn against the latest stored state of a session and saves the
// result. fn is re-run on a fresh copy when another write lands first.
func (s *EditorService) Apply(ctx context.Context, ownerID, id, action string, fn func(*form.Session) error) (*SessionView, error) {
	sess, err := s.mutate(ctx, ownerID, id, action, fn)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess), nil
}

// Payload previews the request body a submit would send.
func (s *EditorService) Payload(ctx context.Context, ownerID, id string) (*form.Payload, error) {
	sess, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	payload := sess.Payload()
	return &payload, nil
}

// Discard cancels a session and throws its state away.
func (s *EditorService) Discard(ctx context.Context, ownerID, id string) error {
	if _, err := s.load(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	ctx = logger.WithSessionID(ctx, id)
	s.log(ctx).InfoContext(ctx, "editing session discarded")
	return nil
}

// Submit sends the assembled payload to the catalog. On success the session
// ends and the persisted product is returned. On failure the session is left
// untouched so the user can correct it and submit again.
func (s *EditorService) Submit(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	sess, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithSessionID(ctx, id)

	payload := sess.Payload()
	var (
		saved     *domain.Product
		operation string
	)
	if sess.Mode == form.ModeEdit {
		operation = event.OperationUpdated
		saved, err = s.catalog.UpdateProduct(ctx, sess.ProductID, payload)
	} else {
		operation = event.OperationCreated
		saved, err = s.catalog.CreateProduct(ctx, payload)
	}
	if err != nil {
		submitsTotal.WithLabelValues(string(sess.Mode), "failed").Inc()
		s.log(ctx).WarnContext(ctx, "product submission failed",
			slog.String("mode", string(sess.Mode)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	submitsTotal.WithLabelValues(string(sess.Mode), "ok").Inc()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to delete submitted session",
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishProductSaved(ctx, id, operation, saved); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to publish product.saved event",
			slog.String("product_id", saved.ID),
			slog.String("error", err.Error()),
		)
	}

	s.log(ctx).InfoContext(ctx, "product submitted",
		slog.String("product_id", saved.ID),
		slog.String("operation", operation),
	)
	return saved, nil
}

// UploadImages sends files to the image upload endpoint and appends the
// results to the session. A second image upload for the same session is
// rejected while one is in flight.
func (s *EditorService) UploadImages(ctx context.Context, ownerID, id string, files []domain.FilePart) (*SessionView, error) {
	if _, err := s.load(ctx, ownerID, id); err != nil {
		return nil, err
	}
	ctx = logger.WithSessionID(ctx, id)

	var updated *form.Session
	err := s.uploads.UploadImages(ctx, id, files, func(ctx context.Context, uploaded []domain.UploadedFile) error {
		sess, err := s.mutate(ctx, ownerID, id, "upload_images", func(sess *form.Session) error {
			sess.AddUploadedImages(uploaded)
			return nil
		})
		updated = sess
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated), nil
}

// UploadModel sends one 3D asset and attaches it to the session's model.
// A high-poly asset needs an existing model and is refused before any
// network call when there is none.
func (s *EditorService) UploadModel(ctx context.Context, ownerID, id string, variant domain.ModelVariant, file domain.FilePart) (*SessionView, error) {
	sess, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if variant == domain.ModelVariantHigh && !sess.HasModel() {
		return nil, apperrors.InvalidInput(form.ErrNoModel.Error())
	}
	ctx = logger.WithSessionID(ctx, id)

	var updated *form.Session
	err = s.uploads.UploadModel(ctx, id, file, func(ctx context.Context, uploaded domain.UploadedFile) error {
		sess, err := s.mutate(ctx, ownerID, id, "upload_model_"+string(variant), func(sess *form.Session) error {
			if err := sess.AttachModelAsset(variant, uploaded.URL); err != nil {
				return apperrors.InvalidInput(err.Error())
			}
			return nil
		})
		updated = sess
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated), nil
}

func (s *EditorService) load(ctx context.Context, ownerID, id string) (*form.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !sess.IsOwnedBy(ownerID) {
		return nil, apperrors.Forbidden("session belongs to another user")
	}
	return sess, nil
}

func (s *EditorService) mutate(ctx context.Context, ownerID, id, action string, fn func(*form.Session) error) (*form.Session, error) {
	for attempt := 1; attempt <= maxMutateAttempts; attempt++ {
		sess, err := s.load(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}

		expected := sess.Version
		if err := fn(sess); err != nil {
			sessionOps.WithLabelValues(action, "error").Inc()
			return nil, err
		}
		sess.Version = expected + 1
		sess.UpdatedAt = s.now()

		ok, err := s.repo.SaveIfVersion(ctx, sess, expected)
		if err != nil {
			sessionOps.WithLabelValues(action, "error").Inc()
			return nil, fmt.Errorf("save session: %w", err)
		}
		if ok {
			sessionOps.WithLabelValues(action, "ok").Inc()
			return sess, nil
		}

		s.log(ctx).DebugContext(ctx, "session version moved, retrying",
			slog.String("session_id", id),
			slog.String("action", action),
			slog.Int("attempt", attempt),
		)
	}

	sessionOps.WithLabelValues(action, "conflict").Inc()
	return nil, apperrors.Conflict("session was modified concurrently, please retry")
}

func (s *EditorService) view(ctx context.Context, sess *form.Session) *SessionView {
	v := &SessionView{Session: sess}
	held, err := s.uploads.InFlight(ctx, sess.ID)
	if err != nil {
		s.log(ctx).WarnContext(ctx, "failed to read upload flags",
			slog.String("error", err.Error()),
		)
		return v
	}
	v.Uploading = Uploading{
		Images: held[domain.UploadKindImages],
		Model:  held[domain.UploadKindModel],
	}
	return v
}

func (s *EditorService) log(ctx context.Context) *slog.Logger {
	return logger.WithContext(ctx, s.logger)
}

// idKey matches keys the catalog may hold verbatim: UUIDs, slugs and
// opaque mixed-case IDs.
var idKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// lookupKey trims productKey and returns it unchanged when it could be an
// ID or slug. Anything else, such as a display name, is slug-normalized.
func lookupKey(productKey string) string {
	key := strings.TrimSpace(productKey)
	if idKey.MatchString(key) {
		return key
	}
	return slug.Normalize(key)
}
