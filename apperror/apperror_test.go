package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndCodeMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"token missing", NewTokenMissingError(), http.StatusUnauthorized, "TokenMissingException"},
		{"token verification", NewTokenVerificationError("bad", nil), http.StatusUnauthorized, "TokenVerificationException"},
		{"token expired", NewTokenExpiredError(nil), http.StatusUnauthorized, "TokenExpiredException"},
		{"invalid credentials", NewInvalidCredentialsError("no"), http.StatusUnauthorized, "InvalidCredentialsException"},
		{"forbidden", NewForbiddenError(), http.StatusForbidden, "ForbiddenException"},
		{"not found", NewNotFoundError("gone"), http.StatusNotFound, "NotFoundException"},
		{"invalid properties", NewInvalidPropertiesError(nil), http.StatusUnprocessableEntity, "InvalidPropertiesException"},
		{"conflict", NewConflictError("dup", nil), http.StatusConflict, "DuplicateEntryException"},
		{"otp expired", NewOTPExpiredError(), http.StatusBadRequest, "OTPExpiredException"},
		{"otp verification", NewOTPVerificationError(), http.StatusUnauthorized, "OTPVerificationException"},
		{"database", NewDatabaseError("boom", nil), http.StatusInternalServerError, "DatabaseException"},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError, "InternalServerException"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.StatusCode(); got != tc.status {
				t.Errorf("status = %d, want %d", got, tc.status)
			}
			if got := tc.err.Code(); got != tc.code {
				t.Errorf("code = %q, want %q", got, tc.code)
			}
		})
	}
}

func TestCanonicalMessages(t *testing.T) {
	if got := NewTokenMissingError().Message; got != "Access denied. No token credentials sent" {
		t.Errorf("token missing message = %q", got)
	}
	if got := NewForbiddenError().Message; got != "User unauthorized for action" {
		t.Errorf("forbidden message = %q", got)
	}
}

func TestUnwrapAndFromError(t *testing.T) {
	underlying := errors.New("connection refused")
	wrapped := fmt.Errorf("query failed: %w", NewDatabaseError("select blew up", underlying))

	appErr, ok := FromError(wrapped)
	if !ok {
		t.Fatal("FromError did not find the AppError in the chain")
	}
	if appErr.Type != DatabaseError {
		t.Errorf("type = %v", appErr.Type)
	}
	if !errors.Is(wrapped, underlying) {
		t.Error("underlying error lost from the chain")
	}
}

func TestFromErrorPlainError(t *testing.T) {
	if _, ok := FromError(errors.New("plain")); ok {
		t.Error("plain error reported as AppError")
	}
	if _, ok := FromError(nil); ok {
		t.Error("nil reported as AppError")
	}
}

func TestTypePredicates(t *testing.T) {
	if !IsNotFound(NewNotFoundError("x")) || IsNotFound(NewForbiddenError()) {
		t.Error("IsNotFound misclassified")
	}
	if !IsForbidden(NewForbiddenError()) || IsForbidden(NewNotFoundError("x")) {
		t.Error("IsForbidden misclassified")
	}
	if !IsConflict(NewConflictError("x", nil)) {
		t.Error("IsConflict misclassified")
	}
	if !IsInvalidProperties(NewInvalidPropertiesError(nil)) {
		t.Error("IsInvalidProperties misclassified")
	}
}
