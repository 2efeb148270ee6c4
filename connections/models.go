// Package connections manages student-to-student connections: friend
// requests, acceptance, and removal. A connection is stored once per pair;
// the (student_1_erp, student_2_erp) columns hold the pair in canonical order
// regardless of who sent the request.
package connections

// Connection statuses. A declined request is deleted, not marked.
const (
	StatusRequestPending = "request_pending"
	StatusFriends        = "friends"
)

// StudentPreview is the slice of a student profile embedded in connection
// reads.
type StudentPreview struct {
	ERP               string  `json:"erp"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	ProgramID         int     `json:"program_id"`
	GraduationYear    int     `json:"graduation_year"`
}

// Connection is the joined read projection of one student_connections row,
// with both endpoints expanded.
type Connection struct {
	StudentConnectionID int            `json:"student_connection_id"`
	ConnectionStatus    string         `json:"connection_status"`
	SentAt              string         `json:"sent_at"`
	AcceptedAt          *string        `json:"accepted_at"`
	Sender              StudentPreview `json:"sender"`
	Receiver            StudentPreview `json:"receiver"`
}
