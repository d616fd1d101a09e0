package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
)

// --- Sizes ---

// AddSize handles POST /sessions/{id}/sizes
func (h *SessionHandler) AddSize(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "add_size", func(s *form.Session) error {
		s.AddSize(h.newID)
		return nil
	})
}

// UpdateSize handles PATCH /sessions/{id}/sizes/{index}
func (h *SessionHandler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var patch form.SizePatch
	if !decode(w, r, &patch) {
		return
	}
	if err := checkSizePatch(patch); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.apply(w, r, "update_size", func(s *form.Session) error {
		s.UpdateSize(index, patch)
		return nil
	})
}

// UpdateSizeDimension handles PUT /sessions/{id}/sizes/{index}/dimensions/{field}
func (h *SessionHandler) UpdateSizeDimension(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	raw := chi.URLParam(r, "field")
	field, ok := form.ParseDimensionField(raw)
	if !ok {
		httputil.WriteInvalidParameter(w, r, "dimension", raw)
		return
	}
	var req DimensionRequest
	if !decode(w, r, &req) {
		return
	}

	h.apply(w, r, "update_size_dimension", func(s *form.Session) error {
		s.UpdateSizeDimension(index, field, req.Value)
		return nil
	})
}

// --- Fabric categories ---

// AddFabricCategory handles POST /sessions/{id}/fabric-categories
func (h *SessionHandler) AddFabricCategory(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "add_fabric_category", func(s *form.Session) error {
		s.AddFabricCategory(h.newID)
		return nil
	})
}

// RenameFabricCategory handles PUT /sessions/{id}/fabric-categories/{index}/name
func (h *SessionHandler) RenameFabricCategory(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req RenameRequest
	if !decode(w, r, &req) {
		return
	}

	h.apply(w, r, "rename_fabric_category", func(s *form.Session) error {
		s.RenameFabricCategory(index, req.Name)
		return nil
	})
}

// AddFabric handles POST /sessions/{id}/fabric-categories/{index}/fabrics
func (h *SessionHandler) AddFabric(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}

	h.apply(w, r, "add_fabric", func(s *form.Session) error {
		s.AddFabric(index, h.newID)
		return nil
	})
}

// UpdateFabric handles PATCH /sessions/{id}/fabric-categories/{index}/fabrics/{fabric}
func (h *SessionHandler) UpdateFabric(w http.ResponseWriter, r *http.Request) {
	index, fabric, ok := fabricPath(w, r)
	if !ok {
		return
	}
	var patch form.FabricPatch
	if !decode(w, r, &patch) {
		return
	}

	h.apply(w, r, "update_fabric", func(s *form.Session) error {
		s.UpdateFabric(index, fabric, patch)
		return nil
	})
}

// SetDefaultFabric handles PUT /sessions/{id}/fabric-categories/{index}/fabrics/{fabric}/default
func (h *SessionHandler) SetDefaultFabric(w http.ResponseWriter, r *http.Request) {
	index, fabric, ok := fabricPath(w, r)
	if !ok {
		return
	}

	h.apply(w, r, "set_default_fabric", func(s *form.Session) error {
		s.SetDefaultFabric(index, fabric)
		return nil
	})
}

// RemoveFabric handles DELETE /sessions/{id}/fabric-categories/{index}/fabrics/{fabric}
func (h *SessionHandler) RemoveFabric(w http.ResponseWriter, r *http.Request) {
	index, fabric, ok := fabricPath(w, r)
	if !ok {
		return
	}

	h.apply(w, r, "remove_fabric", func(s *form.Session) error {
		s.RemoveFabric(index, fabric)
		return nil
	})
}

func fabricPath(w http.ResponseWriter, r *http.Request) (index, fabric int, ok bool) {
	if index, ok = pathIndex(w, r, "index"); !ok {
		return 0, 0, false
	}
	if fabric, ok = pathIndex(w, r, "fabric"); !ok {
		return 0, 0, false
	}
	return index, fabric, true
}
