package students

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
// filters on list endpoints. Anything else in the query string is rejected,
// never interpolated.
var filterableColumns = map[string]bool{
	"gender":          true,
	"graduation_year": true,
	"program_id":      true,
	"campus_id":       true,
	"is_active":       true,
}

// predicatesFromQuery maps whitelisted query parameters to equality
// predicates.
func predicatesFromQuery(query url.Values) ([]querybuilder.Predicate, error) {
	var preds []querybuilder.Predicate
	for key, values := range query {
		if !filterableColumns[key] {
			return nil, apperror.NewInvalidPropertiesError([]validation.FieldError{
				{Param: key, Message: "unknown filter parameter"},
			})
		}
		preds = append(preds, querybuilder.Eq{Column: key, Value: values[0]})
	}
	return preds, nil
}

// Handler holds the HTTP handlers of the student endpoints.
type Handler struct {
	service *StudentService
}

// NewHandler creates a new students Handler.
func NewHandler(service *StudentService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the student endpoints. Listing and deletion are
// admin-only; profile reads need any authenticated caller; updates are
// owner-or-admin.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/students", func(r chi.Router) {
		r.Use(authenticated)
		r.With(auth.RequireAdmin).Get("/", h.FindAll())
		r.Get("/{erp}", h.FindOne())
		r.Patch("/{erp}", h.Update())
		r.With(auth.RequireAdmin).Delete("/{erp}", h.Delete())
	})
}

// FindAll handles GET /students.
func (h *Handler) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preds, err := predicatesFromQuery(r.URL.Query())
		if err != nil {
			response.Error(w, err)
			return
		}

		students, err := h.service.FindAll(r.Context(), preds)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(students) == 0 {
			response.Error(w, apperror.NewNotFoundError("Students not found"))
			return
		}
		response.Send(w, http.StatusOK, "", students)
	}
}

// FindOne handles GET /students/{erp}.
func (h *Handler) FindOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, err := h.service.FindOne(r.Context(), chi.URLParam(r, "erp"))
		if err != nil {
			response.Error(w, err)
			return
		}
		if student == nil {
			response.Error(w, apperror.NewNotFoundError("Student not found"))
			return
		}
		response.Send(w, http.StatusOK, "", student)
	}
}

// Update handles PATCH /students/{erp}. Non-admins may only update their own
// profile.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}
		erp := chi.URLParam(r, "erp")
		if !principal.IsAdmin() && principal.ERP != erp {
			response.Error(w, apperror.NewForbiddenError())
			return
		}

		var req UpdateStudentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		result, err := h.service.Update(r.Context(), erp, req)
		if err != nil {
			response.Error(w, err)
			return
		}
		if result.RowsMatched == 0 {
			response.Error(w, apperror.NewNotFoundError("Student not found"))
			return
		}
		response.Send(w, http.StatusOK, "Student has been updated", result)
	}
}

// Delete handles DELETE /students/{erp}.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := h.service.Delete(r.Context(), chi.URLParam(r, "erp"))
		if err != nil {
			response.Error(w, err)
			return
		}
		if removed == 0 {
			response.Error(w, apperror.NewNotFoundError("Student not found"))
			return
		}
		response.Send(w, http.StatusOK, "Student has been deleted", DeleteResult{RowsRemoved: removed})
	}
}
