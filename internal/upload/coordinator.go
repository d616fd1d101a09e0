package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/repository"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

// DefaultLockTTL bounds how long a crashed upload can block its kind.
const DefaultLockTTL = 5 * time.Minute

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oakadmin_uploads_total",
		Help: "Uploads by kind and outcome (ok, failed, rejected).",
	}, []string{"kind", "outcome"})

	uploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oakadmin_upload_duration_seconds",
		Help:    "Time spent sending files to the upload endpoint.",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"kind"})
)

// Uploader sends files to the catalog's upload endpoints.
type Uploader interface {
	UploadImages(ctx context.Context, files []domain.FilePart) ([]domain.UploadedFile, error)
	UploadModel(ctx context.Context, file domain.FilePart) (*domain.UploadedFile, error)
}

// Coordinator runs uploads for editing sessions. Each upload kind of a session
// is single-flight: a second upload of the same kind is rejected while the
// first is outstanding. The network call runs without touching the session;
// the merge callback applies the result to whatever state is current when it
// completes.
type Coordinator struct {
	uploader Uploader
	locks    repository.UploadLocks
	lockTTL  time.Duration
	logger   *slog.Logger
}

// NewCoordinator creates an upload coordinator.
func NewCoordinator(uploader Uploader, locks repository.UploadLocks, lockTTL time.Duration, logger *slog.Logger) *Coordinator {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Coordinator{
		uploader: uploader,
		locks:    locks,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// UploadImages sends files and hands the returned references to merge. On
// failure, or when the endpoint returns a different number of references
// than files sent, nothing is merged.
func (c *Coordinator) UploadImages(ctx context.Context, sessionID string, files []domain.FilePart, merge func(context.Context, []domain.UploadedFile) error) error {
	if len(files) == 0 {
		return apperrors.InvalidInput("at least one image file is required")
	}
	return c.run(ctx, sessionID, domain.UploadKindImages, func(ctx context.Context) error {
		uploaded, err := c.uploader.UploadImages(ctx, files)
		if err != nil {
			return err
		}
		if len(uploaded) != len(files) {
			return apperrors.Upstream("upload failed",
				fmt.Errorf("upload endpoint returned %d files for %d sent", len(uploaded), len(files)))
		}
		return merge(ctx, uploaded)
	})
}

// UploadModel sends one 3D asset and hands the returned reference to merge.
func (c *Coordinator) UploadModel(ctx context.Context, sessionID string, file domain.FilePart, merge func(context.Context, domain.UploadedFile) error) error {
	return c.run(ctx, sessionID, domain.UploadKindModel, func(ctx context.Context) error {
		uploaded, err := c.uploader.UploadModel(ctx, file)
		if err != nil {
			return err
		}
		return merge(ctx, *uploaded)
	})
}

// InFlight reports which upload kinds are outstanding for a session.
func (c *Coordinator) InFlight(ctx context.Context, sessionID string) (map[domain.UploadKind]bool, error) {
	return c.locks.Held(ctx, sessionID)
}

func (c *Coordinator) run(ctx context.Context, sessionID string, kind domain.UploadKind, fn func(context.Context) error) error {
	token, ok, err := c.locks.Acquire(ctx, sessionID, kind, c.lockTTL)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("acquire %s upload lock: %w", kind, err))
	}
	if !ok {
		uploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return apperrors.UploadInProgress(string(kind))
	}
	defer func() {
		// Release with a fresh context so a cancelled request still frees the lock.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := c.locks.Release(releaseCtx, sessionID, kind, token); err != nil {
			c.logger.ErrorContext(ctx, "failed to release upload lock",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}()

	start := time.Now()
	err = fn(ctx)
	uploadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		uploadsTotal.WithLabelValues(string(kind), "failed").Inc()
		c.logger.WarnContext(ctx, "upload failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return err
	}
	uploadsTotal.WithLabelValues(string(kind), "ok").Inc()
	return nil
}
