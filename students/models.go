// Package students manages student profiles: listing, lookup, self-service
// profile updates, and account removal. It also resolves token claims to live
// account state for the auth middleware.
package students

// Student is one row of the students table. The password column never leaves
// the auth package, so it has no field here.
type Student struct {
	ERP               string  `json:"erp"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Gender            string  `json:"gender"`
	Contact           string  `json:"contact"`
	Email             string  `json:"email"`
	Birthday          string  `json:"birthday"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	GraduationYear    int     `json:"graduation_year"`
	ProgramID         int     `json:"program_id"`
	CampusID          int     `json:"campus_id"`
	Role              string  `json:"role"`
	IsActive          bool    `json:"is_active"`
}
