package http

import (
	"net/http"

	"github.com/samijoehayek/opus-oakadmin/internal/form"
	"github.com/samijoehayek/opus-oakadmin/pkg/httputil"
)

// AddFeature handles POST /sessions/{id}/features
func (h *SessionHandler) AddFeature(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "add_feature", func(s *form.Session) error {
		s.AddFeature(h.newID)
		return nil
	})
}

// UpdateFeature handles PATCH /sessions/{id}/features/{index}
func (h *SessionHandler) UpdateFeature(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var patch form.FeaturePatch
	if !decode(w, r, &patch) {
		return
	}
	if err := checkFeaturePatch(patch, h.options); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.apply(w, r, "update_feature", func(s *form.Session) error {
		s.UpdateFeature(index, patch)
		return nil
	})
}

// AddSpecification handles POST /sessions/{id}/specifications
func (h *SessionHandler) AddSpecification(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "add_specification", func(s *form.Session) error {
		s.AddSpecification()
		return nil
	})
}

// UpdateSpecification handles PATCH /sessions/{id}/specifications/{index}
func (h *SessionHandler) UpdateSpecification(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var patch form.SpecificationPatch
	if !decode(w, r, &patch) {
		return
	}

	h.apply(w, r, "update_specification", func(s *form.Session) error {
		s.UpdateSpecification(index, patch)
		return nil
	})
}
