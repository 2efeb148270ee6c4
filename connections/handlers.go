package connections

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/querybuilder"
	"github.com/user/campusconnect-go/response"
	"github.com/user/campusconnect-go/validation"
)

// filterableColumns whitelists the query parameters accepted on the pending
// requests list.
var filterableColumns = map[string]bool{
	"sender_erp":   true,
	"receiver_erp": true,
}

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

// Handler holds the HTTP handlers of the connection endpoints.
type Handler struct {
	service *ConnectionService
}

// NewHandler creates a new connections Handler.
func NewHandler(service *ConnectionService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the connection endpoints. Everything requires
// authentication; per-row ownership checks happen in the handlers.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/connections", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/requests", h.FindAllRequests())
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

// FindAllRequests handles GET /connections/requests.
func (h *Handler) FindAllRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preds, err := predicatesFromQuery(r.URL.Query())
		if err != nil {
			response.Error(w, err)
			return
		}

		requests, err := h.service.FindAllRequests(r.Context(), preds)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(requests) == 0 {
			response.Error(w, apperror.NewNotFoundError("Connection requests not found"))
			return
		}
		response.Send(w, http.StatusOK, "", requests)
	}
}

// FindAll handles GET /connections. Non-admins always see their own
// connections; admins may pass ?erp= to inspect another student's.
func (h *Handler) FindAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}

		erp := principal.ERP
		if requested := r.URL.Query().Get("erp"); requested != "" && requested != principal.ERP {
			if !principal.IsAdmin() {
				response.Error(w, apperror.NewForbiddenError())
				return
			}
			erp = requested
		}

		connections, err := h.service.FindAll(r.Context(), erp)
		if err != nil {
			response.Error(w, err)
			return
		}
		if len(connections) == 0 {
			response.Error(w, apperror.NewNotFoundError("Connections not found"))
			return
		}
		response.Send(w, http.StatusOK, "", connections)
	}
}

// FindOne handles GET /connections/{id}.
func (h *Handler) FindOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		conn, err := h.service.FindOne(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if conn == nil {
			response.Error(w, apperror.NewNotFoundError("Connection not found"))
			return
		}
		response.Send(w, http.StatusOK, "", conn)
	}
}

// Create handles POST /connections. Non-admins may only send requests as
// themselves.
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}

		var req CreateConnectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}
		if !principal.IsAdmin() && req.SenderERP != principal.ERP {
			response.Error(w, apperror.NewForbiddenError())
			return
		}

		result, err := h.service.Create(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusCreated, "Connection request was created", result)
	}
}

// Update handles PATCH /connections/{id}: the receiver accepting a pending
// request.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}

		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req UpdateConnectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		conn, err := h.service.FindOne(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if conn == nil {
			response.Error(w, apperror.NewNotFoundError("Connection not found"))
			return
		}
		// Only the student on the receiving end accepts.
		if !principal.IsAdmin() && conn.Receiver.ERP != principal.ERP {
			response.Error(w, apperror.NewForbiddenError())
			return
		}
		if conn.ConnectionStatus != StatusRequestPending {
			response.Error(w, apperror.NewBadRequestError("connection request is not pending", nil))
			return
		}

		result, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			response.Error(w, err)
			return
		}
		if result.RowsMatched == 0 {
			response.Error(w, apperror.NewNotFoundError("Connection not found"))
			return
		}
		response.Send(w, http.StatusOK, "Connection request accepted", result)
	}
}

// Delete handles DELETE /connections/{id}: declining a pending request or
// removing an accepted connection. Either endpoint of the pair may do it.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}

		id, err := idParam(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		conn, err := h.service.FindOne(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if conn == nil {
			response.Error(w, apperror.NewNotFoundError("Connection not found"))
			return
		}
		if !principal.IsAdmin() && conn.Sender.ERP != principal.ERP && conn.Receiver.ERP != principal.ERP {
			response.Error(w, apperror.NewForbiddenError())
			return
		}

		removed, err := h.service.Delete(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}
		if removed == 0 {
			response.Error(w, apperror.NewNotFoundError("Connection not found"))
			return
		}
		response.Send(w, http.StatusOK, "Connection has been deleted", DeleteResult{RowsRemoved: removed})
	}
}
