package reportapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	errorslib "github.com/goliatone/go-errors"

	"github.com/goliatone/go-report/report"
)

// Route paths served by the controller.
const (
	PathIndex       = "/"
	PathPreview     = "/preview"
	PathGeneratePDF = "/generate-pdf"
)

// HeaderRequestID carries the request id on requests and responses.
const HeaderRequestID = "X-Request-Id"

const msgInternal = "internal server error"

// Config configures the shared report controller.
type Config struct {
	Service      report.Service
	Logger       report.Logger
	IDGenerator  func() string
	MaxFormBytes int64
	// MaxSections rejects larger section_count values. Zero disables the limit.
	MaxSections int
}

// Controller exposes the report endpoints for multiple transports.
type Controller struct {
	service      report.Service
	logger       report.Logger
	idGenerator  func() string
	maxFormBytes int64
	maxSections  int
}

// NewController creates a shared report controller.
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = report.NopLogger{}
	}
	idGenerator := cfg.IDGenerator
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	maxForm := cfg.MaxFormBytes
	if maxForm <= 0 {
		maxForm = DefaultMaxFormBytes
	}
	return &Controller{
		service:      cfg.Service,
		logger:       logger,
		idGenerator:  idGenerator,
		maxFormBytes: maxForm,
		maxSections:  cfg.MaxSections,
	}
}

// Serve routes report endpoints.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil {
		WriteError(res, report.NewError(report.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, report.NewError(report.KindInternal, "request is nil", nil))
		return
	}

	start := time.Now()
	requestID := strings.TrimSpace(req.Header(HeaderRequestID))
	if requestID == "" {
		requestID = c.idGenerator()
	}
	res.SetHeader(HeaderRequestID, requestID)
	recorder := &statusResponse{Response: res}

	c.route(req, recorder)

	c.logger.Infof("report request: id=%s method=%s path=%s status=%d duration=%s",
		requestID, req.Method(), req.Path(), recorder.status, time.Since(start))
}

func (c *Controller) route(req Request, res Response) {
	path := req.Path()
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	switch path {
	case PathIndex:
		if !allowMethod(req, res, http.MethodGet, http.MethodHead) {
			return
		}
		c.handleIndex(req, res)
	case PathPreview:
		if !allowMethod(req, res, http.MethodPost) {
			return
		}
		c.handlePreview(req, res)
	case PathGeneratePDF:
		if !allowMethod(req, res, http.MethodPost) {
			return
		}
		c.handleGeneratePDF(req, res)
	default:
		WriteError(res, report.NewError(report.KindNotFound, "not found", nil))
	}
}

func (c *Controller) handleIndex(req Request, res Response) {
	if c.service == nil {
		WriteError(res, report.NewError(report.KindInternal, "service not configured", nil))
		return
	}
	page, err := c.service.Index(req.Context())
	if err != nil {
		c.logError(req, err)
		WriteError(res, err)
		return
	}
	writeBody(res, report.ContentTypeHTML, page, req.Method() != http.MethodHead)
}

func (c *Controller) handlePreview(req Request, res Response) {
	form, ok := c.decode(req, res, report.ModePreview)
	if !ok {
		return
	}
	doc, err := c.service.Preview(req.Context(), form)
	if err != nil {
		c.logError(req, err)
		WriteError(res, err)
		return
	}
	writeBody(res, report.ContentTypeHTML, doc.HTML, true)
}

func (c *Controller) handleGeneratePDF(req Request, res Response) {
	form, ok := c.decode(req, res, report.ModePDF)
	if !ok {
		return
	}
	pdf, err := c.service.GeneratePDF(req.Context(), form)
	if err != nil {
		c.logError(req, err)
		WriteError(res, err)
		return
	}

	filename := pdf.Filename
	if filename == "" {
		filename = report.DefaultPDFFilename
	}
	contentType := pdf.ContentType
	if contentType == "" {
		contentType = report.ContentTypePDF
	}
	res.SetHeader("Content-Disposition", "attachment; filename="+filename)
	res.SetHeader("Cache-Control", "no-store")
	writeBody(res, contentType, pdf.Bytes, true)
}

func (c *Controller) decode(req Request, res Response, mode report.Mode) (report.Form, bool) {
	if c.service == nil {
		WriteError(res, report.NewError(report.KindInternal, "service not configured", nil))
		return report.Form{}, false
	}
	values, err := req.Form(c.maxFormBytes)
	if err != nil {
		WriteError(res, err)
		return report.Form{}, false
	}
	form, err := report.DecodeForm(values, mode, report.FormOptions{MaxSections: c.maxSections})
	if err != nil {
		WriteError(res, err)
		return report.Form{}, false
	}
	return form, true
}

func (c *Controller) logError(req Request, err error) {
	c.logger.Errorf("report %s %s failed: kind=%s: %v", req.Method(), req.Path(), report.KindFromError(err), err)
}

func allowMethod(req Request, res Response, methods ...string) bool {
	for _, method := range methods {
		if req.Method() == method {
			return true
		}
	}
	res.SetHeader("Allow", strings.Join(methods, ", "))
	_ = res.WriteJSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	return false
}

func writeBody(res Response, contentType string, body []byte, includeBody bool) {
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Content-Length", strconv.Itoa(len(body)))
	res.WriteHeader(http.StatusOK)
	if includeBody && len(body) > 0 {
		_, _ = res.Write(body)
	}
}

// WriteError writes err as a JSON error response.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	if errors.Is(err, ErrBodyTooLarge) {
		_ = res.WriteJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrBodyTooLarge.Msg})
		return
	}

	ge := report.AsGoError(err)
	status := StatusForError(ge)
	payload := ErrorResponse{Error: ge.Message}
	switch ge.TextCode {
	case "validation":
		payload.Fields = report.FieldErrors(err)
	case "conversion":
		payload.Error = report.MsgPDFGenerationFailed
	}
	if status == http.StatusInternalServerError {
		payload.Error = msgInternal
	}
	_ = res.WriteJSON(status, payload)
}

// StatusForError maps a go-errors error onto an HTTP status.
func StatusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.TextCode {
	case "not_implemented":
		return http.StatusNotImplemented
	case "conversion":
		return http.StatusBadGateway
	case "timeout":
		return http.StatusGatewayTimeout
	case "canceled":
		return http.StatusRequestTimeout
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusUnprocessableEntity
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
