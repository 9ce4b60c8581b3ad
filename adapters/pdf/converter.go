package reportpdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-report/report"
)

// DefaultMaxHTMLBytes bounds the HTML accepted for conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// Engine names accepted by NewEngine.
const (
	EngineChromium    = "chromium"
	EngineWKHTMLTOPDF = "wkhtmltopdf"
)

// RenderRequest contains HTML input and options for PDF engines.
type RenderRequest struct {
	HTML    []byte
	Options report.PDFOptions
}

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, report.NewError(report.KindInternal, "pdf engine func is nil", nil)
	}
	return f(ctx, req)
}

// Converter is a report.Converter backed by an Engine.
type Converter struct {
	Enabled      bool
	Engine       Engine
	MaxHTMLBytes int64
}

var _ report.Converter = Converter{}

// Convert validates the input and hands it to the engine.
func (c Converter) Convert(ctx context.Context, html []byte, opts report.PDFOptions) ([]byte, error) {
	if !c.Enabled {
		return nil, report.NewError(report.KindNotImpl, "pdf conversion is disabled", nil)
	}
	if c.Engine == nil {
		return nil, report.NewError(report.KindInternal, "pdf conversion requires engine", nil)
	}
	maxBytes := c.MaxHTMLBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxHTMLBytes
	}
	if int64(len(html)) > maxBytes {
		return nil, report.NewError(report.KindValidation, "pdf conversion max html bytes exceeded", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pdf, err := c.Engine.Render(ctx, RenderRequest{HTML: html, Options: opts})
	if err != nil {
		if report.KindFromError(err) == report.KindInternal {
			err = report.NewError(report.KindConversion, "pdf engine failed", err)
		}
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, report.NewError(report.KindConversion, "pdf engine returned no output", nil)
	}
	return pdf, nil
}

// WKHTMLTOPDFEngine invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Render pipes the HTML through wkhtmltopdf using stdin and stdout.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	cmdPath := strings.TrimSpace(e.Command)
	if cmdPath == "" {
		cmdPath = EngineWKHTMLTOPDF
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string{"--quiet"}, wkhtmltopdfArgs(req.Options)...)
	args = append(args, e.Args...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, report.NewError(report.KindTimeout, "wkhtmltopdf timed out", ctxErr)
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, report.NewError(report.KindConversion, message, err)
	}
	return stdout.Bytes(), nil
}

func wkhtmltopdfArgs(opts report.PDFOptions) []string {
	var args []string
	if opts.PageSize != "" {
		args = append(args, "--page-size", opts.PageSize)
	}
	if opts.Landscape != nil && *opts.Landscape {
		args = append(args, "--orientation", "Landscape")
	}
	if opts.PrintBackground != nil && !*opts.PrintBackground {
		args = append(args, "--no-background")
	}
	margins := []struct {
		flag  string
		value string
	}{
		{"--margin-top", opts.MarginTop},
		{"--margin-bottom", opts.MarginBottom},
		{"--margin-left", opts.MarginLeft},
		{"--margin-right", opts.MarginRight},
	}
	for _, margin := range margins {
		if margin.value != "" {
			args = append(args, margin.flag, margin.value)
		}
	}
	if opts.ExternalAssetsPolicy == report.PDFExternalAssetsBlock {
		args = append(args, "--disable-external-links", "--disable-local-file-access")
	}
	return args
}
