package reportpdf

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-report/report"
)

func TestConverter_Disabled(t *testing.T) {
	_, err := Converter{}.Convert(context.Background(), []byte("<html></html>"), report.PDFOptions{})
	if report.KindFromError(err) != report.KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}

func TestConverter_MissingEngine(t *testing.T) {
	_, err := Converter{Enabled: true}.Convert(context.Background(), []byte("<html></html>"), report.PDFOptions{})
	if report.KindFromError(err) != report.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestConverter_ForwardsRequest(t *testing.T) {
	var got RenderRequest
	converter := Converter{
		Enabled: true,
		Engine: EngineFunc(func(_ context.Context, req RenderRequest) ([]byte, error) {
			got = req
			return []byte("%PDF-1.4"), nil
		}),
	}

	opts := report.PDFOptions{PageSize: "A4", MarginTop: "1cm"}
	pdf, err := converter.Convert(context.Background(), []byte("<html>ok</html>"), opts)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(pdf) != "%PDF-1.4" {
		t.Fatalf("unexpected output %q", pdf)
	}
	if string(got.HTML) != "<html>ok</html>" {
		t.Fatalf("unexpected html %q", got.HTML)
	}
	if diff := cmp.Diff(opts, got.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestConverter_MaxHTMLBytes(t *testing.T) {
	called := false
	converter := Converter{
		Enabled: true,
		Engine: EngineFunc(func(context.Context, RenderRequest) ([]byte, error) {
			called = true
			return []byte("pdf"), nil
		}),
		MaxHTMLBytes: 4,
	}
	_, err := converter.Convert(context.Background(), []byte("0123456789"), report.PDFOptions{})
	if report.KindFromError(err) != report.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatalf("expected engine not to run")
	}
}

func TestConverter_EngineErrors(t *testing.T) {
	boom := errors.New("boom")
	converter := Converter{
		Enabled: true,
		Engine: EngineFunc(func(context.Context, RenderRequest) ([]byte, error) {
			return nil, boom
		}),
	}
	_, err := converter.Convert(context.Background(), []byte("<html></html>"), report.PDFOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if report.KindFromError(err) != report.KindConversion {
		t.Fatalf("expected conversion error, got %v", err)
	}

	converter.Engine = EngineFunc(func(context.Context, RenderRequest) ([]byte, error) {
		return nil, nil
	})
	_, err = converter.Convert(context.Background(), []byte("<html></html>"), report.PDFOptions{})
	if report.KindFromError(err) != report.KindConversion {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestWKHTMLTOPDFArgs(t *testing.T) {
	args := wkhtmltopdfArgs(report.PDFOptions{
		PageSize:             "A4",
		Landscape:            boolPtr(true),
		PrintBackground:      boolPtr(false),
		MarginTop:            "10mm",
		MarginRight:          "5mm",
		ExternalAssetsPolicy: report.PDFExternalAssetsBlock,
	})
	want := []string{
		"--page-size", "A4",
		"--orientation", "Landscape",
		"--no-background",
		"--margin-top", "10mm",
		"--margin-right", "5mm",
		"--disable-external-links", "--disable-local-file-access",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestWKHTMLTOPDFEngine_CommandFailure(t *testing.T) {
	engine := WKHTMLTOPDFEngine{Command: "/nonexistent/wkhtmltopdf", Timeout: time.Second}
	_, err := engine.Render(context.Background(), RenderRequest{HTML: []byte("<html></html>")})
	if report.KindFromError(err) != report.KindConversion {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestWKHTMLTOPDFEngine_Smoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping wkhtmltopdf smoke test in short mode")
	}
	path, err := exec.LookPath(EngineWKHTMLTOPDF)
	if err != nil {
		t.Skip("wkhtmltopdf binary not found")
	}

	pdf, err := WKHTMLTOPDFEngine{Command: path, Timeout: 30 * time.Second}.Render(context.Background(), RenderRequest{
		HTML: []byte("<html><body><h1>Quarterly Review</h1></body></html>"),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		t.Fatalf("expected pdf output")
	}
}

func TestNewEngine(t *testing.T) {
	engine, closeFn, err := NewEngine(EngineConfig{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, ok := engine.(*ChromiumEngine); !ok {
		t.Fatalf("expected chromium engine by default, got %T", engine)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	engine, _, err = NewEngine(EngineConfig{Name: "WKHTMLTOPDF", WKHTMLTOPDFPath: "/usr/bin/wkhtmltopdf"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if wk, ok := engine.(WKHTMLTOPDFEngine); !ok || wk.Command != "/usr/bin/wkhtmltopdf" {
		t.Fatalf("unexpected engine %#v", engine)
	}

	_, closeFn, err = NewEngine(EngineConfig{Name: "prince"})
	if report.KindFromError(err) != report.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if closeFn == nil {
		t.Fatalf("expected close func")
	}
}
