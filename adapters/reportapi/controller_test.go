package reportapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-report/report"
)

type stubRequest struct {
	method  string
	path    string
	headers map[string]string
	form    url.Values
	formErr error
}

func (s stubRequest) Context() context.Context { return context.Background() }
func (s stubRequest) Method() string           { return s.method }
func (s stubRequest) Path() string             { return s.path }
func (s stubRequest) Header(name string) string {
	return s.headers[name]
}
func (s stubRequest) Form(int64) (url.Values, error) { return s.form, s.formErr }

type stubResponse struct {
	headers http.Header
	status  int
	body    bytes.Buffer
}

func newStubResponse() *stubResponse {
	return &stubResponse{headers: http.Header{}}
}

func (s *stubResponse) SetHeader(name, value string) { s.headers.Set(name, value) }
func (s *stubResponse) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
}
func (s *stubResponse) Write(data []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.body.Write(data)
}
func (s *stubResponse) WriteJSON(status int, payload any) error {
	s.headers.Set("Content-Type", "application/json")
	s.WriteHeader(status)
	return json.NewEncoder(&s.body).Encode(payload)
}

type stubService struct {
	preview    func(report.Form) (report.Document, error)
	pdf        func(report.Form) (report.PDFDocument, error)
	index      []byte
	indexErr   error
	lastForm   report.Form
	calledWith string
}

func (s *stubService) Index(context.Context) ([]byte, error) {
	s.calledWith = "index"
	return s.index, s.indexErr
}

func (s *stubService) Preview(_ context.Context, form report.Form) (report.Document, error) {
	s.calledWith = "preview"
	s.lastForm = form
	if s.preview != nil {
		return s.preview(form)
	}
	return report.Document{HTML: []byte("<html>preview</html>")}, nil
}

func (s *stubService) GeneratePDF(_ context.Context, form report.Form) (report.PDFDocument, error) {
	s.calledWith = "pdf"
	s.lastForm = form
	if s.pdf != nil {
		return s.pdf(form)
	}
	return report.PDFDocument{Filename: "report.pdf", ContentType: "application/pdf", Bytes: []byte("%PDF-1.7")}, nil
}

func validForm() url.Values {
	return url.Values{
		"title":             {"Quarterly Review"},
		"author":            {"Ada"},
		"date":              {"2024-03-01"},
		"document_type":     {"Technical Report"},
		"section_count":     {"1"},
		"section_title_0":   {"Intro"},
		"section_content_0": {"Hello"},
	}
}

func newTestController(svc report.Service) *Controller {
	return NewController(Config{
		Service:     svc,
		IDGenerator: func() string { return "req-1" },
		MaxSections: 5,
	})
}

func decodeError(t *testing.T, res *stubResponse) ErrorResponse {
	t.Helper()
	var payload ErrorResponse
	if err := json.Unmarshal(res.body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", res.body.String(), err)
	}
	return payload
}

func TestController_Index(t *testing.T) {
	svc := &stubService{index: []byte("<form></form>")}
	res := newStubResponse()
	newTestController(svc).Serve(stubRequest{method: http.MethodGet, path: "/"}, res)

	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.status)
	}
	if got := res.headers.Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	if res.body.String() != "<form></form>" {
		t.Fatalf("unexpected body %q", res.body.String())
	}
	if res.headers.Get(HeaderRequestID) != "req-1" {
		t.Fatalf("expected generated request id, got %q", res.headers.Get(HeaderRequestID))
	}
}

func TestController_ReusesRequestID(t *testing.T) {
	res := newStubResponse()
	newTestController(&stubService{}).Serve(stubRequest{
		method:  http.MethodGet,
		path:    "/",
		headers: map[string]string{HeaderRequestID: "incoming"},
	}, res)
	if res.headers.Get(HeaderRequestID) != "incoming" {
		t.Fatalf("expected incoming request id, got %q", res.headers.Get(HeaderRequestID))
	}
}

func TestController_Preview(t *testing.T) {
	svc := &stubService{}
	res := newStubResponse()
	newTestController(svc).Serve(stubRequest{method: http.MethodPost, path: "/preview", form: validForm()}, res)

	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.status, res.body.String())
	}
	if res.body.String() != "<html>preview</html>" {
		t.Fatalf("unexpected body %q", res.body.String())
	}
	if svc.lastForm.Title != "Quarterly Review" || svc.lastForm.SectionCount != 1 {
		t.Fatalf("unexpected form %+v", svc.lastForm)
	}
}

func TestController_GeneratePDF(t *testing.T) {
	svc := &stubService{}
	res := newStubResponse()
	form := validForm()
	form.Del("document_type")
	newTestController(svc).Serve(stubRequest{method: http.MethodPost, path: "/generate-pdf", form: form}, res)

	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.status, res.body.String())
	}
	want := map[string]string{
		"Content-Type":        "application/pdf",
		"Content-Disposition": "attachment; filename=report.pdf",
		"Content-Length":      "8",
	}
	for name, value := range want {
		if got := res.headers.Get(name); got != value {
			t.Fatalf("expected %s=%q, got %q", name, value, got)
		}
	}
	if res.body.String() != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", res.body.String())
	}
	if svc.lastForm.DocumentType != report.DefaultDocumentType {
		t.Fatalf("expected default document type, got %q", svc.lastForm.DocumentType)
	}
}

func TestController_ValidationError(t *testing.T) {
	svc := &stubService{}
	res := newStubResponse()
	form := validForm()
	form.Del("title")
	newTestController(svc).Serve(stubRequest{method: http.MethodPost, path: "/preview", form: form}, res)

	if res.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.status)
	}
	payload := decodeError(t, res)
	want := []report.FieldError{{Field: "title", Message: "field required"}}
	if diff := cmp.Diff(want, payload.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if svc.calledWith != "" {
		t.Fatalf("expected service not to be called, got %s", svc.calledWith)
	}
}

func TestController_MaxSections(t *testing.T) {
	res := newStubResponse()
	form := validForm()
	form.Set("section_count", "6")
	newTestController(&stubService{}).Serve(stubRequest{method: http.MethodPost, path: "/generate-pdf", form: form}, res)
	if res.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.status)
	}
}

func TestController_PDFFailure(t *testing.T) {
	svc := &stubService{pdf: func(report.Form) (report.PDFDocument, error) {
		return report.PDFDocument{}, report.NewError(report.KindConversion, report.MsgPDFGenerationFailed, errors.New("chromium: exit status 1"))
	}}
	res := newStubResponse()
	newTestController(svc).Serve(stubRequest{method: http.MethodPost, path: "/generate-pdf", form: validForm()}, res)

	if res.status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.status)
	}
	if got := strings.TrimSpace(res.body.String()); got != `{"error":"PDF generation failed"}` {
		t.Fatalf("unexpected body %q", got)
	}
	if res.headers.Get("Content-Disposition") != "" {
		t.Fatalf("expected no attachment header on failure")
	}
}

func TestController_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{report.NewError(report.KindNotImpl, "pdf converter is not configured", nil), http.StatusNotImplemented},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{report.NewError(report.KindRender, "template report failed to render", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		svc := &stubService{preview: func(report.Form) (report.Document, error) {
			return report.Document{}, tc.err
		}}
		res := newStubResponse()
		newTestController(svc).Serve(stubRequest{method: http.MethodPost, path: "/preview", form: validForm()}, res)
		if res.status != tc.status {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.status, res.status)
		}
		if tc.status == http.StatusInternalServerError {
			if payload := decodeError(t, res); payload.Error != msgInternal {
				t.Fatalf("expected generic message, got %q", payload.Error)
			}
		}
	}
}

func TestController_MethodNotAllowed(t *testing.T) {
	cases := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodGet, "/preview", "POST"},
		{http.MethodGet, "/generate-pdf", "POST"},
		{http.MethodPost, "/", "GET, HEAD"},
	}
	for _, tc := range cases {
		res := newStubResponse()
		newTestController(&stubService{}).Serve(stubRequest{method: tc.method, path: tc.path}, res)
		if res.status != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, res.status)
		}
		if got := res.headers.Get("Allow"); got != tc.allow {
			t.Fatalf("%s %s: expected Allow %q, got %q", tc.method, tc.path, tc.allow, got)
		}
	}
}

func TestController_NotFound(t *testing.T) {
	res := newStubResponse()
	newTestController(&stubService{}).Serve(stubRequest{method: http.MethodGet, path: "/admin"}, res)
	if res.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.status)
	}
	if payload := decodeError(t, res); payload.Error != "not found" {
		t.Fatalf("unexpected error %q", payload.Error)
	}
}

func TestController_BodyTooLarge(t *testing.T) {
	res := newStubResponse()
	newTestController(&stubService{}).Serve(stubRequest{
		method:  http.MethodPost,
		path:    "/preview",
		formErr: ErrBodyTooLarge,
	}, res)
	if res.status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.status)
	}
}

func TestController_TrailingSlash(t *testing.T) {
	res := newStubResponse()
	newTestController(&stubService{}).Serve(stubRequest{method: http.MethodPost, path: "/preview/", form: validForm()}, res)
	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.status)
	}
}
