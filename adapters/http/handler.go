package reporthttp

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-report/adapters/reportapi"
	"github.com/goliatone/go-report/report"
)

// Config configures the HTTP adapter.
type Config = reportapi.Config

// Handler exposes the report endpoints over net/http.
type Handler struct {
	controller *reportapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: reportapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a ServeMux compatible router.
// Method checks are left to the controller.
func (h *Handler) RegisterRoutes(router any) {
	paths := []string{reportapi.PathIndex, reportapi.PathPreview, reportapi.PathGeneratePDF}
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		for _, path := range paths {
			r.Handle(path, h)
		}
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		for _, path := range paths {
			r.HandleFunc(path, h.ServeHTTP)
		}
	}
}

// RegisterMux registers the report routes on a gorilla/mux router. Requests
// with other methods on these paths still reach the controller, which answers
// 405 with an Allow header.
func (h *Handler) RegisterMux(r *mux.Router) {
	if r == nil {
		return
	}
	r.Handle(reportapi.PathIndex, h).Methods(http.MethodGet, http.MethodHead)
	r.Handle(reportapi.PathPreview, h).Methods(http.MethodPost)
	r.Handle(reportapi.PathGeneratePDF, h).Methods(http.MethodPost)
	r.MethodNotAllowedHandler = h
	r.NotFoundHandler = h
}

// ServeHTTP routes report endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		reportapi.WriteError(httpResponse{w: w}, report.NewError(report.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(httpRequest{r: r, w: w}, httpResponse{w: w})
}
