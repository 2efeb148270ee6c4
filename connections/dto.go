package connections

// CreateConnectionRequest sends a friend request from sender to receiver.
type CreateConnectionRequest struct {
	SenderERP   string `json:"sender_erp" validate:"required,numeric,len=5"`
	ReceiverERP string `json:"receiver_erp" validate:"required,numeric,len=5,nefield=SenderERP"`
	SentAt      string `json:"sent_at" validate:"required,datetime=2006-01-02 15:04:05"`
}

// UpdateConnectionRequest accepts a pending request. Declining is a delete,
// so friends is the only status a client can set.
type UpdateConnectionRequest struct {
	ConnectionStatus string `json:"connection_status" validate:"required,oneof=friends"`
	AcceptedAt       string `json:"accepted_at" validate:"required,datetime=2006-01-02 15:04:05"`
}

// CreateResult reports the id of the created row.
type CreateResult struct {
	StudentConnectionID int   `json:"student_connection_id"`
	AffectedRows        int64 `json:"affected_rows"`
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
