// This file defines the request and response payloads of the auth endpoints.
// Validation rules live in the `validate` tags and run before any model call.
package auth

// RegisterRequest carries the fields for creating a new student account.
type RegisterRequest struct {
	ERP               string `json:"erp" validate:"required,numeric,len=5"`
	FirstName         string `json:"first_name" validate:"required,max=45"`
	LastName          string `json:"last_name" validate:"required,max=45"`
	Gender            string `json:"gender" validate:"required,oneof=male female other"`
	Contact           string `json:"contact" validate:"required,max=20"`
	Email             string `json:"email" validate:"required,email"`
	Birthday          string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Password          string `json:"password" validate:"required,min=8"`
	ProfilePictureURL string `json:"profile_picture_url" validate:"omitempty,url"`
	GraduationYear    int    `json:"graduation_year" validate:"required,min=2000,max=2100"`
	ProgramID         int    `json:"program_id" validate:"required,min=1"`
	CampusID          int    `json:"campus_id" validate:"required,min=1"`
}

// LoginRequest carries login credentials. The ERP is the account identifier.
type LoginRequest struct {
	ERP      string `json:"erp" validate:"required,numeric"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned on successful login, registration, or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshTokenRequest carries the refresh token for obtaining a new access
// token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthenticatedStudent is the body of register and login responses: the
// public profile plus the token pair.
type AuthenticatedStudent struct {
	ERP       string        `json:"erp"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	Token     TokenResponse `json:"token"`
}

// ForgotPasswordRequest starts the OTP flow for the given account.
type ForgotPasswordRequest struct {
	ERP string `json:"erp" validate:"required,numeric"`
}

// VerifyOTPRequest carries the code a student received.
type VerifyOTPRequest struct {
	ERP string `json:"erp" validate:"required,numeric"`
	OTP string `json:"otp" validate:"required,numeric,len=4"`
}

// ResetPasswordRequest sets a new password after OTP verification.
type ResetPasswordRequest struct {
	ERP         string `json:"erp" validate:"required,numeric"`
	OTP         string `json:"otp" validate:"required,numeric,len=4"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePasswordRequest changes the password of the authenticated student
// when the old password is known.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
