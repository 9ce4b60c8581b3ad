package reportapi

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-report/report"
)

// DefaultMaxFormBytes bounds submitted form bodies.
const DefaultMaxFormBytes int64 = 1 << 20

// ErrBodyTooLarge is returned by transports when a form body exceeds the limit.
var ErrBodyTooLarge = report.NewError(report.KindValidation, "request body too large", nil)

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	// Form parses the submitted form, reading at most maxBytes of body.
	Form(maxBytes int64) (url.Values, error)
}

// ParseHTTPForm parses the form of r, bounding the body with
// http.MaxBytesReader. Only body values are returned; query parameters are
// ignored.
func ParseHTTPForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (url.Values, error) {
	if r == nil {
		return nil, report.NewError(report.KindInternal, "request is nil", nil)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFormBytes
	}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBytes)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, report.NewError(report.KindValidation, "invalid form submission", err)
	}
	return r.PostForm, nil
}

// ParseFormBody decodes an already buffered form body. Transports that cannot
// reach the underlying *http.Request use it.
func ParseFormBody(contentType string, body []byte, maxBytes int64) (url.Values, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFormBytes
	}
	if int64(len(body)) > maxBytes {
		return nil, ErrBodyTooLarge
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch mediaType {
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, report.NewError(report.KindValidation, "multipart boundary missing", nil)
		}
		form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxBytes)
		if err != nil {
			if errors.Is(err, multipart.ErrMessageTooLarge) {
				return nil, ErrBodyTooLarge
			}
			return nil, report.NewError(report.KindValidation, "invalid multipart form", err)
		}
		defer form.RemoveAll()
		return url.Values(form.Value), nil
	default:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, report.NewError(report.KindValidation, "invalid form encoding", err)
		}
		return values, nil
	}
}
