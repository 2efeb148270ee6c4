package students

// UpdateStudentRequest carries the mutable profile fields. Pointer fields
// distinguish "not sent" from a zero value; only the fields present in the
// request reach the statement builder.
type UpdateStudentRequest struct {
	FirstName         *string `json:"first_name" validate:"omitempty,max=45"`
	LastName          *string `json:"last_name" validate:"omitempty,max=45"`
	Gender            *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Contact           *string `json:"contact" validate:"omitempty,max=20"`
	Birthday          *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	GraduationYear    *int    `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`
	ProgramID         *int    `json:"program_id" validate:"omitempty,min=1"`
	CampusID          *int    `json:"campus_id" validate:"omitempty,min=1"`
	IsActive          *bool   `json:"is_active"`
}

// UpdateResult reports the outcome of an update statement.
type UpdateResult struct {
	RowsMatched int64 `json:"rows_matched"`
	RowsChanged int64 `json:"rows_changed"`
}

// DeleteResult reports the outcome of a delete statement.
type DeleteResult struct {
	RowsRemoved int64 `json:"rows_removed"`
}
