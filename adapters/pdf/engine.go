package reportpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-report/report"
)

// EngineConfig selects and configures an Engine.
type EngineConfig struct {
	// Name is EngineChromium (default) or EngineWKHTMLTOPDF.
	Name            string
	ChromiumPath    string
	ChromiumArgs    []string
	Headless        *bool
	WKHTMLTOPDFPath string
	WKHTMLTOPDFArgs []string
	Timeout         time.Duration
	DefaultPDF      report.PDFOptions
}

// NewEngine builds the configured engine. The returned close function
// releases engine resources and is never nil.
func NewEngine(cfg EngineConfig) (Engine, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", EngineChromium:
		headless := true
		if cfg.Headless != nil {
			headless = *cfg.Headless
		}
		engine := &ChromiumEngine{
			BrowserPath: cfg.ChromiumPath,
			Headless:    headless,
			Timeout:     cfg.Timeout,
			Args:        cfg.ChromiumArgs,
			DefaultPDF:  cfg.DefaultPDF,
		}
		return engine, engine.Close, nil
	case EngineWKHTMLTOPDF:
		return WKHTMLTOPDFEngine{
			Command: cfg.WKHTMLTOPDFPath,
			Args:    cfg.WKHTMLTOPDFArgs,
			Timeout: cfg.Timeout,
		}, noop, nil
	default:
		return nil, noop, report.NewError(report.KindValidation, fmt.Sprintf("unknown pdf engine: %s", cfg.Name), nil)
	}
}
