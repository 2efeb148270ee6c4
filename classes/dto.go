package classes

// ClassRequest carries the writable columns of a class. The class_erp key is
// client-supplied, not generated.
type ClassRequest struct {
	ClassERP       string  `json:"class_erp" validate:"required,numeric,len=4"`
	Semester       string  `json:"semester" validate:"required,max=20"`
	ClassroomID    int     `json:"classroom_id" validate:"required,min=1"`
	SubjectCode    string  `json:"subject_code" validate:"required,max=10"`
	TeacherID      int     `json:"teacher_id" validate:"required,min=1"`
	ParentClassERP *string `json:"parent_class_erp" validate:"omitempty,numeric,len=4"`
	Timeslot1      int     `json:"timeslot_1" validate:"required,min=1"`
	Timeslot2      int     `json:"timeslot_2" validate:"required,min=1"`
	Day1           string  `json:"day_1" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Day2           string  `json:"day_2" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// CreateManyRequest carries a batch of classes for bulk registration.
type CreateManyRequest struct {
	Classes []ClassRequest `json:"classes" validate:"required,min=1,dive"`
}

// UpdateClassRequest carries the mutable columns of a class; only the fields
// present in the request reach the statement builder.
type UpdateClassRequest struct {
	Semester       *string `json:"semester" validate:"omitempty,max=20"`
	ClassroomID    *int    `json:"classroom_id" validate:"omitempty,min=1"`
	SubjectCode    *string `json:"subject_code" validate:"omitempty,max=10"`
	TeacherID      *int    `json:"teacher_id" validate:"omitempty,min=1"`
	ParentClassERP *string `json:"parent_class_erp" validate:"omitempty,numeric,len=4"`
	Timeslot1      *int    `json:"timeslot_1" validate:"omitempty,min=1"`
	Timeslot2      *int    `json:"timeslot_2" validate:"omitempty,min=1"`
	Day1           *string `json:"day_1" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Day2           *string `json:"day_2" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

// CreateResult reports the outcome of a single or bulk insert.
type CreateResult struct {
	AffectedRows int64 `json:"affected_rows"`
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
