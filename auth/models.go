// Package auth is responsible for handling authentication and authorization:
// student registration, login, token generation and validation (JWT), and the
// OTP-based password-reset flow.
package auth

import "time"

// Roles a student account can hold. Role is stored on the students row and
// fetched per request, never embedded in the token.
const (
	RoleAdmin   = "admin"
	RoleAPIUser = "api_user"
)

// Principal is the authenticated caller attached to the request context by
// the JWT middleware.
type Principal struct {
	ERP       string `json:"erp"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// OTPCode is one row of the otp_codes table. The OTP column holds a bcrypt
// hash of the generated code, never the plaintext.
type OTPCode struct {
	ERP                string    `json:"erp"`
	OTP                string    `json:"-"`
	ExpirationDatetime time.Time `json:"expiration_datetime"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpirationDatetime)
}
