package hobbies

// CreateHobbyRequest carries the label of a new hobby.
type CreateHobbyRequest struct {
	Hobby string `json:"hobby" validate:"required,min=2,max=45"`
}

// UpdateHobbyRequest renames an existing hobby.
type UpdateHobbyRequest struct {
	Hobby string `json:"hobby" validate:"required,min=2,max=45"`
}

// CreateResult reports the id of the created row.
type CreateResult struct {
	HobbyID      int   `json:"hobby_id"`
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
