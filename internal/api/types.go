package api

import "encoding/json"

// Wire status codes in the response envelope.
const (
	statusSuccess  = "SUCCESS"
	statusConflict = "CONFLICT"
)

// envelope is the uniform response wrapper: a status code, an optional
// human-readable message, and the operation payload.
type envelope struct {
	Status    string          `json:"status"`
	Code      string          `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// SubmitRequest carries one comment submission. Stage is the stage the client
// loaded the application at; the server rejects the call with CONFLICT when
// the record has moved on since.
type SubmitRequest struct {
	AppNumber string `json:"appNumber"`
	Action    string `json:"action"`
	Stage     string `json:"stage"`
	Field     string `json:"field"`
	Comment   string `json:"comment"`
	Actor     string `json:"actor"`
}

// RevertRequest rewinds an application to an earlier stage.
type RevertRequest struct {
	AppNumber   string `json:"appNumber"`
	TargetStage string `json:"targetStage"`
	Reason      string `json:"reason,omitempty"`
	Actor       string `json:"actor"`
}
