package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/log"
)

var errNoCategoryName = errors.New("category name is required")

type categoriesResponse struct {
	Categories []string `json:"categories"`
	Custom     []string `json:"custom"`
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) categoriesBody() categoriesResponse {
	return categoriesResponse{
		Categories: s.categories.List(),
		Custom:     s.categories.Custom(),
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.categoriesBody()).Write(w)
}

// handleAddCategory answers 201 when the name was added and 200 when it was
// already present.
func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	name := sanitizeInput(req.Name)
	if name == "" {
		UnprocessableEntityError(errNoCategoryName.Error()).Write(w)
		return
	}

	added, err := s.categories.Add(r.Context(), name)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	NewResponse().Status(status).JSON(s.categoriesBody()).Write(w)
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request has one, leaving the
	// parameter escaped; otherwise it is already decoded.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			BadRequestError("invalid category name").Write(w)
			return
		}
		name = unescaped
	}

	removed, err := s.categories.Remove(r.Context(), name)
	if err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	if !removed {
		NotFoundError("custom category not found").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
