package hobbies

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/response"
	"github.com/user/campusconnect-go/validation"
)

// Handler holds the HTTP handlers of the hobby endpoints.
type Handler struct {
	service *HobbyService
}

// NewHandler creates a new hobbies Handler.
func NewHandler(service *HobbyService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the hobby endpoints. Reads require authentication;
// mutations require the admin role on top.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/hobbies", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.FindAll())
		r.Get("/{id}", h.FindOne())
		r.With(auth.RequireAdmin).Post("/", h.Create())
		r.With(auth.RequireAdmin).Patch("/{id}", h.Update())
		r.With(auth.RequireAdmin).Delete("/{id}", h.Delete())
	})
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.NewInvalidPropertiesError([]validation.FieldError{
			{Param: "id", Message: "must be an integer"},
		})
	}
	return id, nil
}

// FindAll handles GET /hobbies.
func (h *Handler) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hobbies, err := h.service.FindAll(r.Context(), nil)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(hobbies) == 0 {
			response.Error(w, apperror.NewNotFoundError("Hobbies not found"))
			return
		}
		response.Send(w, http.StatusOK, "", hobbies)
	}
}

// FindOne handles GET /hobbies/{id}.
func (h *Handler) FindOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		hobby, err := h.service.FindOne(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if hobby == nil {
			response.Error(w, apperror.NewNotFoundError("Hobby not found"))
			return
		}
		response.Send(w, http.StatusOK, "", hobby)
	}
}

// Create handles POST /hobbies.
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateHobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.service.Create(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusCreated, "Hobby was created", result)
	}
}

// Update handles PATCH /hobbies/{id}.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req UpdateHobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			response.Error(w, err)
			return
		}
		if result.RowsMatched == 0 {
			response.Error(w, apperror.NewNotFoundError("Hobby not found"))
			return
		}
		response.Send(w, http.StatusOK, "Hobby has been updated", result)
	}
}

// Delete handles DELETE /hobbies/{id}.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		removed, err := h.service.Delete(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if removed == 0 {
			response.Error(w, apperror.NewNotFoundError("Hobby not found"))
			return
		}
		response.Send(w, http.StatusOK, "Hobby has been deleted", DeleteResult{RowsRemoved: removed})
	}
}
