package http

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samijoehayek/opus-oakadmin/internal/domain"
	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/internal/service"
	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
	"github.com/samijoehayek/opus-oakadmin/pkg/middleware"
	"github.com/samijoehayek/opus-oakadmin/pkg/validator"
)

// DefaultUploadMaxBytes caps one upload request when no limit is configured.
const DefaultUploadMaxBytes = 50 << 20

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 32 << 20

// SessionHandler handles HTTP requests for product editing sessions.
type SessionHandler struct {
	editor         *service.EditorService
	options        *domain.FormOptions
	uploadMaxBytes int64
	newID          form.IDFunc
	logger         *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler. uploadMaxBytes caps
// the size of one multipart upload request.
func NewSessionHandler(editor *service.EditorService, options *domain.FormOptions, uploadMaxBytes int64, logger *slog.Logger) *SessionHandler {
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = DefaultUploadMaxBytes
	}
	return &SessionHandler{
		editor:         editor,
		options:        options,
		uploadMaxBytes: uploadMaxBytes,
		newID:          form.NewTempID,
		logger:         logger,
	}
}

// Routes registers the session endpoints on r, which is mounted at /sessions.
func (h *SessionHandler) Routes(r chi.Router) {
	r.Post("/", h.Open)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(SessionScope)

		r.Get("/", h.Get)
		r.Delete("/", h.Discard)
		r.Get("/payload", h.Payload)
		r.Post("/submit", h.Submit)
		r.Put("/tab", h.SetTab)

		r.Patch("/basic", h.PatchBasic)
		r.Post("/care-instructions", h.AddCareInstruction)
		r.Put("/care-instructions/{index}", h.UpdateCareInstruction)
		r.Delete("/care-instructions/{index}", h.at("remove_care_instruction", (*form.Session).RemoveCareInstruction))

		r.Post("/images", h.UploadImages)
		r.Patch("/images/{index}", h.UpdateImageAltText)
		r.Put("/images/{index}/primary", h.at("set_primary_image", (*form.Session).SetPrimaryImage))
		r.Post("/images/{index}/move", h.move("move_image", (*form.Session).MoveImage))
		r.Delete("/images/{index}", h.at("remove_image", (*form.Session).RemoveImage))

		r.Patch("/model", h.PatchModel)
		r.Post("/model/{variant}", h.UploadModel)
		r.Delete("/model/{variant}", h.RemoveModelAsset)

		r.Post("/sizes", h.AddSize)
		r.Patch("/sizes/{index}", h.UpdateSize)
		r.Put("/sizes/{index}/dimensions/{field}", h.UpdateSizeDimension)
		r.Put("/sizes/{index}/default", h.at("set_default_size", (*form.Session).SetDefaultSize))
		r.Post("/sizes/{index}/move", h.move("move_size", (*form.Session).MoveSize))
		r.Delete("/sizes/{index}", h.at("remove_size", (*form.Session).RemoveSize))

		r.Post("/fabric-categories", h.AddFabricCategory)
		r.Put("/fabric-categories/{index}/name", h.RenameFabricCategory)
		r.Post("/fabric-categories/{index}/move", h.move("move_fabric_category", (*form.Session).MoveFabricCategory))
		r.Delete("/fabric-categories/{index}", h.at("remove_fabric_category", (*form.Session).RemoveFabricCategory))
		r.Post("/fabric-categories/{index}/fabrics", h.AddFabric)
		r.Patch("/fabric-categories/{index}/fabrics/{fabric}", h.UpdateFabric)
		r.Put("/fabric-categories/{index}/fabrics/{fabric}/default", h.SetDefaultFabric)
		r.Delete("/fabric-categories/{index}/fabrics/{fabric}", h.RemoveFabric)

		r.Post("/features", h.AddFeature)
		r.Patch("/features/{index}", h.UpdateFeature)
		r.Post("/features/{index}/move", h.move("move_feature", (*form.Session).MoveFeature))
		r.Delete("/features/{index}", h.at("remove_feature", (*form.Session).RemoveFeature))

		r.Post("/specifications", h.AddSpecification)
		r.Patch("/specifications/{index}", h.UpdateSpecification)
		r.Post("/specifications/{index}/move", h.move("move_specification", (*form.Session).MoveSpecification))
		r.Delete("/specifications/{index}", h.at("remove_specification", (*form.Session).RemoveSpecification))
	})
}

// --- Lifecycle ---

// Open handles POST /sessions
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.editor.Open(r.Context(), middleware.UserIDFromContext(r.Context()), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, view)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.editor.Get(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// Discard handles DELETE /sessions/{id}
func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.Discard(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Payload handles GET /sessions/{id}/payload
func (h *SessionHandler) Payload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.editor.Payload(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, payload)
}

// Submit handles POST /sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	product, err := h.editor.Submit(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// SetTab handles PUT /sessions/{id}/tab
func (h *SessionHandler) SetTab(w http.ResponseWriter, r *http.Request) {
	var req SetTabRequest
	if !decode(w, r, &req) {
		return
	}
	tab, ok := form.ParseTab(req.Tab)
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("unknown tab "+req.Tab), h.logger)
		return
	}

	h.apply(w, r, "set_tab", func(s *form.Session) error {
		s.SetTab(tab)
		return nil
	})
}

// --- Basic ---

// PatchBasic handles PATCH /sessions/{id}/basic
func (h *SessionHandler) PatchBasic(w http.ResponseWriter, r *http.Request) {
	var patch form.BasicPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := checkBasicPatch(patch, h.options); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.apply(w, r, "patch_basic", func(s *form.Session) error {
		s.PatchBasic(patch)
		return nil
	})
}

// AddCareInstruction handles POST /sessions/{id}/care-instructions
func (h *SessionHandler) AddCareInstruction(w http.ResponseWriter, r *http.Request) {
	var req CareInstructionRequest
	if !decode(w, r, &req) {
		return
	}

	h.apply(w, r, "add_care_instruction", func(s *form.Session) error {
		s.AddCareInstruction(req.Value)
		return nil
	})
}

// UpdateCareInstruction handles PUT /sessions/{id}/care-instructions/{index}
func (h *SessionHandler) UpdateCareInstruction(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req CareInstructionRequest
	if !decode(w, r, &req) {
		return
	}

	h.apply(w, r, "update_care_instruction", func(s *form.Session) error {
		s.UpdateCareInstruction(index, req.Value)
		return nil
	})
}

// --- Media ---

// UploadImages handles POST /sessions/{id}/images (multipart/form-data, field "files").
func (h *SessionHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("at least one image file is required"), h.logger)
		return
	}

	parts := make([]domain.FilePart, 0, len(headers))
	for _, fh := range headers {
		part, closeFn, err := openPart(fh)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("unreadable file "+fh.Filename), h.logger)
			return
		}
		defer closeFn()
		parts = append(parts, part)
	}

	view, err := h.editor.UploadImages(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), parts)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// UpdateImageAltText handles PATCH /sessions/{id}/images/{index}
func (h *SessionHandler) UpdateImageAltText(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req AltTextRequest
	if !decode(w, r, &req) {
		return
	}

	h.apply(w, r, "update_image_alt_text", func(s *form.Session) error {
		s.UpdateImageAltText(index, req.AltText)
		return nil
	})
}

// UploadModel handles POST /sessions/{id}/model/{variant} (multipart/form-data, field "file").
func (h *SessionHandler) UploadModel(w http.ResponseWriter, r *http.Request) {
	variant, ok := pathVariant(w, r)
	if !ok {
		return
	}
	if !h.parseMultipart(w, r) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["file"]
	if len(headers) != 1 {
		httputil.WriteError(w, r, apperrors.InvalidInput("exactly one model file is required"), h.logger)
		return
	}
	part, closeFn, err := openPart(headers[0])
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("unreadable file "+headers[0].Filename), h.logger)
		return
	}
	defer closeFn()

	view, err := h.editor.UploadModel(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), variant, part)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// RemoveModelAsset handles DELETE /sessions/{id}/model/{variant}
func (h *SessionHandler) RemoveModelAsset(w http.ResponseWriter, r *http.Request) {
	variant, ok := pathVariant(w, r)
	if !ok {
		return
	}

	h.apply(w, r, "remove_model_"+string(variant), func(s *form.Session) error {
		s.RemoveModelAsset(variant)
		return nil
	})
}

// PatchModel handles PATCH /sessions/{id}/model
func (h *SessionHandler) PatchModel(w http.ResponseWriter, r *http.Request) {
	var patch form.ModelPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := checkModelPatch(patch, h.options); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.apply(w, r, "patch_model", func(s *form.Session) error {
		s.PatchModel(patch)
		return nil
	})
}

// --- Helpers ---

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, action string, fn func(*form.Session) error) {
	view, err := h.editor.Apply(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), action, fn)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, view)
}

// at builds a handler for an operation addressed by a single {index}.
func (h *SessionHandler) at(action string, op func(*form.Session, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		h.apply(w, r, action, func(s *form.Session) error {
			op(s, index)
			return nil
		})
	}
}

// move builds a reorder handler reading the target position from the body.
func (h *SessionHandler) move(action string, op func(s *form.Session, from, to int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		var req MoveRequest
		if !decode(w, r, &req) {
			return
		}
		to := *req.To
		h.apply(w, r, action, func(s *form.Session) error {
			op(s, from, to)
			return nil
		})
	}
}

func (h *SessionHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteErrorCode(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit")
			return false
		}
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "failed to parse multipart form: "+err.Error())
		return false
	}
	return true
}

func openPart(fh *multipart.FileHeader) (domain.FilePart, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return domain.FilePart{}, nil, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return domain.FilePart{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	limitBody(w, r)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	return httputil.ParseIndex(w, r, name, chi.URLParam(r, name))
}

func pathVariant(w http.ResponseWriter, r *http.Request) (domain.ModelVariant, bool) {
	raw := chi.URLParam(r, "variant")
	variant, ok := domain.ParseModelVariant(raw)
	if !ok {
		httputil.WriteInvalidParameter(w, r, "variant", raw)
	}
	return variant, ok
}
