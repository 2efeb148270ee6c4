package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/response"
	"github.com/user/campusconnect-go/validation"
)

// Handler holds the HTTP handlers of the auth endpoints.
type Handler struct {
	service *AuthService
}

// NewHandler creates a new auth Handler.
func NewHandler(service *AuthService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints. Everything under /auth is public
// except password change, which requires an authenticated caller.
func (h *Handler) RegisterRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register())
		r.Post("/login", h.Login())
		r.Post("/token", h.RefreshToken())
		r.Post("/password/forgot", h.ForgotPassword())
		r.Post("/password/verify-otp", h.VerifyOTP())
		r.Post("/password/reset", h.ResetPassword())
		r.With(authenticated).Post("/password/change", h.ChangePassword())
	})
}

// Register handles POST /auth/register.
func (h *Handler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		student, err := h.service.Register(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusCreated, "Student registered", student)
	}
}

// Login handles POST /auth/login.
func (h *Handler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		student, err := h.service.Login(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "Logged in", student)
	}
}

// RefreshToken handles POST /auth/token.
func (h *Handler) RefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		token, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "Token refreshed", token)
	}
}

// ForgotPassword handles POST /auth/password/forgot.
func (h *Handler) ForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.service.ForgotPassword(r.Context(), req.ERP); err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "OTP generated and sent via email", struct{}{})
	}
}

// VerifyOTP handles POST /auth/password/verify-otp.
func (h *Handler) VerifyOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.service.VerifyOTP(r.Context(), req); err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "OTP verified successfully", struct{}{})
	}
}

// ResetPassword handles POST /auth/password/reset.
func (h *Handler) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.service.ResetPassword(r.Context(), req); err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "Password reset successfully", struct{}{})
	}
}

// ChangePassword handles POST /auth/password/change. The target account is
// always the authenticated caller's own.
func (h *Handler) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, apperror.NewTokenMissingError())
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		if err := validation.Struct(req); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.service.ChangePassword(r.Context(), principal.ERP, req); err != nil {
			response.Error(w, err)
			return
		}
		response.Send(w, http.StatusOK, "Password changed successfully", struct{}{})
	}
}
