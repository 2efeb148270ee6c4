package classes

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/querybuilder"
	"github.com/user/campusconnect-go/response"
	"github.com/user/campusconnect-go/validation"
)

// filterableColumns whitelists the query parameters accepted as equality
// filters on the class list. The names are qualified with the cl alias before
// they reach the statement builder.
var filterableColumns = map[string]string{
	"semester":     "cl.semester",
	"classroom_id": "cl.classroom_id",
	"subject_code": "cl.subject_code",
	"teacher_id":   "cl.teacher_id",
	"day_1":        "cl.day_1",
	"day_2":        "cl.day_2",
}

func predicatesFromQuery(query url.Values) ([]querybuilder.Predicate, error) {
	var preds []querybuilder.Predicate
	for key, values := range query {
		column, ok := filterableColumns[key]
		if !ok {
			return nil, apperror.NewInvalidPropertiesError([]validation.FieldError{
				{Param: key, Message: "unknown filter parameter"},
			})
		}
		preds = append(preds, querybuilder.Eq{Column: column, Value: values[0]})
	}
	return preds, nil
}

// Handler holds the HTTP handlers of the class endpoints.
type Handler struct {
	service *ClassService
}

// NewHandler creates a new classes Handler.
func NewHandler(service *ClassService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the class endpoints. Reads require authentication;
// mutations require the admin role on top.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/classes", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.FindAll())
		r.Get("/{erp}", h.FindOne())
		r.With(auth.RequireAdmin).Post("/", h.Create())
		r.With(auth.RequireAdmin).Post("/bulk", h.CreateMany())
		r.With(auth.RequireAdmin).Patch("/{erp}", h.Update())
		r.With(auth.RequireAdmin).Delete("/{erp}", h.Delete())
	})
}

// FindAll handles GET /classes.
func (h *Handler) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preds, err := predicatesFromQuery(r.URL.Query())
		if err != nil {
			response.Error(w, err)
			return
		}

		classes, err := h.service.FindAll(r.Context(), preds)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(classes) == 0 {
			response.Error(w, apperror.NewNotFoundError("Classes not found"))
			return
		}
		response.Send(w, http.StatusOK, "", classes)
	}
}

// FindOne handles GET /classes/{erp}.
func (h *Handler) FindOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		class, err := h.service.FindOne(r.Context(), chi.URLParam(r, "erp"))
		if err != nil {
			response.Error(w, err)
			return
		}
		if class == nil {
			response.Error(w, apperror.NewNotFoundError("Class not found"))
			return
		}
		response.Send(w, http.StatusOK, "", class)
	}
}

// Create handles POST /classes.
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClassRequest
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
		response.Send(w, http.StatusCreated, "Class was created", result)
	}
}

// CreateMany handles POST /classes/bulk.
func (h *Handler) CreateMany() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateManyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.service.CreateMany(r.Context(), req.Classes)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusCreated, "Classes were created", result)
	}
}

// Update handles PATCH /classes/{erp}.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateClassRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.service.Update(r.Context(), chi.URLParam(r, "erp"), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		if result.RowsMatched == 0 {
			response.Error(w, apperror.NewNotFoundError("Class not found"))
			return
		}
		response.Send(w, http.StatusOK, "Class has been updated", result)
	}
}

// Delete handles DELETE /classes/{erp}.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := h.service.Delete(r.Context(), chi.URLParam(r, "erp"))
		if err != nil {
			response.Error(w, err)
			return
		}
		if removed == 0 {
			response.Error(w, apperror.NewNotFoundError("Class not found"))
			return
		}
		response.Send(w, http.StatusOK, "Class has been deleted", DeleteResult{RowsRemoved: removed})
	}
}
