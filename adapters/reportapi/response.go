package reportapi

import "github.com/goliatone/go-report/report"

// Response provides a minimal response interface for transport adapters.
type Response interface {
	SetHeader(name, value string)
	WriteHeader(status int)
	Write(data []byte) (int, error)
	WriteJSON(status int, payload any) error
}

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []report.FieldError `json:"fields,omitempty"`
}

// statusResponse records the status written through a Response.
type statusResponse struct {
	Response
	status int
}

func (r *statusResponse) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.Response.WriteHeader(status)
}

func (r *statusResponse) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = 200
	}
	return r.Response.Write(data)
}

func (r *statusResponse) WriteJSON(status int, payload any) error {
	if r.status == 0 {
		r.status = status
	}
	return r.Response.WriteJSON(status, payload)
}
