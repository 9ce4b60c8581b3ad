package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-report/command"
	"github.com/goliatone/go-report/internal/app"
	"github.com/goliatone/go-report/internal/config"
	"github.com/goliatone/go-report/report"
)

const (
	formatPDF  = "pdf"
	formatHTML = "html"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "reportctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("reportctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", os.Getenv("REPORT_CONFIG"), "path to a YAML config file")
	outPath := flags.String("out", "", "output path, - for stdout (default report.<format>)")
	format := flags.String("format", formatPDF, "output format: pdf or html")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: reportctl [flags] document.yaml\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errors.New("exactly one document file is required", errors.CategoryValidation).
			WithTextCode("DOCUMENT_REQUIRED")
	}

	*format = strings.ToLower(strings.TrimSpace(*format))
	if *format != formatPDF && *format != formatHTML {
		return errors.New(fmt.Sprintf("unknown format %q", *format), errors.CategoryValidation).
			WithTextCode("FORMAT_INVALID")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *format == formatHTML {
		cfg.PDF.Enabled = false
	}

	doc, err := command.LoadDocumentFile(flags.Arg(0))
	if err != nil {
		return err
	}

	application, err := app.New(cfg, stderr)
	if err != nil {
		return err
	}
	defer application.Close()

	limits := report.FormOptions{MaxSections: cfg.Report.MaxSections}
	var output []byte
	switch *format {
	case formatHTML:
		form, err := doc.Form(report.ModePreview, limits)
		if err != nil {
			return err
		}
		rendered, err := dispatcher.DispatchWithResult[command.PreviewReport, report.Document](ctx, command.PreviewReport{Form: form})
		if err != nil {
			return err
		}
		output = rendered.HTML
	default:
		form, err := doc.Form(report.ModePDF, limits)
		if err != nil {
			return err
		}
		pdf, err := dispatcher.DispatchWithResult[command.GenerateReport, report.PDFDocument](ctx, command.GenerateReport{Form: form})
		if err != nil {
			return err
		}
		output = pdf.Bytes
	}

	target := *outPath
	if target == "" {
		target = "report." + *format
	}
	if target == "-" {
		_, err := stdout.Write(output)
		return err
	}
	if err := os.WriteFile(target, output, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryExternal, "write output failed").
			WithTextCode("OUTPUT_WRITE")
	}
	application.Logger.Infof("wrote %s (%d bytes)", target, len(output))
	return nil
}
