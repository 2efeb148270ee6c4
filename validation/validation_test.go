package validation

import (
	"testing"

	"github.com/user/campusconnect-go/apperror"
)

type createHobbyBody struct {
	Hobby string `json:"hobby" validate:"required,min=2,max=45"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(createHobbyBody{Hobby: "cycling"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStructMissingRequired(t *testing.T) {
	err := Struct(createHobbyBody{})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	appErr, ok := apperror.FromError(err)
	if !ok {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	if appErr.Code() != "InvalidPropertiesException" {
		t.Errorf("code = %q", appErr.Code())
	}
	if appErr.StatusCode() != 422 {
		t.Errorf("status = %d", appErr.StatusCode())
	}

	fields, ok := appErr.Data.([]FieldError)
	if !ok || len(fields) != 1 {
		t.Fatalf("data = %#v", appErr.Data)
	}
	// Field must be reported under its JSON name so clients can match it to
	// the request body they sent.
	if fields[0].Param != "hobby" {
		t.Errorf("param = %q, want %q", fields[0].Param, "hobby")
	}
}

func TestStructMultipleFailures(t *testing.T) {
	type registerBody struct {
		ERP      string `json:"erp" validate:"required,numeric"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	err := Struct(registerBody{ERP: "abc", Email: "not-an-email", Password: "short"})
	appErr, ok := apperror.FromError(err)
	if !ok {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	fields := appErr.Data.([]FieldError)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(fields), fields)
	}
	seen := map[string]bool{}
	for _, f := range fields {
		seen[f.Param] = true
	}
	for _, want := range []string{"erp", "email", "password"} {
		if !seen[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}
