// Package response implements the uniform JSON envelope every endpoint replies
// with. The shape is fixed by the API contract:
//
//	{ "headers": { "error": 0|1, "code"?, "message"?, "data"? }, "body": ... }
//
// Success responses set error to 0 and put the payload in body; failures set
// error to 1 and describe the failure in headers, leaving body empty.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/user/campusconnect-go/apperror"
)

// Headers is the metadata half of the envelope.
type Headers struct {
	Error   int         `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Envelope is the full response wrapper.
type Envelope struct {
	Headers Headers     `json:"headers"`
	Body    interface{} `json:"body"`
}

// Send writes a success envelope with the given HTTP status, optional message
// and body payload.
func Send(w http.ResponseWriter, status int, message string, body interface{}) {
	writeJSON(w, status, Envelope{
		Headers: Headers{Error: 0, Message: message},
		Body:    body,
	})
}

// Error converts err into an error envelope. Errors that are not *AppError are
// wrapped as internal errors so every failure leaves the process in the same
// shape.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred: "+err.Error(), err)
	}

	writeJSON(w, appErr.StatusCode(), Envelope{
		Headers: Headers{
			Error:   1,
			Code:    appErr.Code(),
			Message: appErr.Message,
			Data:    appErr.Data,
		},
		Body: struct{}{},
	})
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		// The status line is already out; nothing left to do but bail.
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}
