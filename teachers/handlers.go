package teachers

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

// Handler holds the HTTP handlers of the teacher endpoints.
type Handler struct {
	service *TeacherService
}

// NewHandler creates a new teachers Handler.
func NewHandler(service *TeacherService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the teacher endpoints. The whole directory is
// admin-only, reads included.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/teachers", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(auth.RequireAdmin)
		r.Get("/", h.FindAll())
		r.Get("/{id}", h.FindOne())
		r.Post("/", h.Create())
		r.Patch("/{id}", h.Update())
		r.Delete("/{id}", h.Delete())
	})
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.NewInvalidPropertiesError([]validation.FieldError{
			{Param: "id", Message: "must be an integer"},
		})
	}
	return id, nil
}

// FindAll handles GET /teachers.
func (h *Handler) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teachers, err := h.service.FindAll(r.Context(), nil)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(teachers) == 0 {
			response.Error(w, apperror.NewNotFoundError("Teachers not found"))
			return
		}
		response.Send(w, http.StatusOK, "", teachers)
	}
}

// FindOne handles GET /teachers/{id}.
func (h *Handler) FindOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		teacher, err := h.service.FindOne(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if teacher == nil {
			response.Error(w, apperror.NewNotFoundError("Teacher not found"))
			return
		}
		response.Send(w, http.StatusOK, "", teacher)
	}
}

// Create handles POST /teachers.
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTeacherRequest
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
		response.Send(w, http.StatusCreated, "Teacher was created", result)
	}
}

// Update handles PATCH /teachers/{id}.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req UpdateTeacherRequest
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
			response.Error(w, apperror.NewNotFoundError("Teacher not found"))
			return
		}
		response.Send(w, http.StatusOK, "Teacher has been updated", result)
	}
}

// Delete handles DELETE /teachers/{id}.
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
			response.Error(w, apperror.NewNotFoundError("Teacher not found"))
			return
		}
		response.Send(w, http.StatusOK, "Teacher has been deleted", DeleteResult{RowsRemoved: removed})
	}
}
