// Package reportpdf converts rendered report HTML into PDF documents.
//
// Converter implements report.Converter on top of a pluggable Engine.
// ChromiumEngine drives a shared headless Chromium through chromedp and
// WKHTMLTOPDFEngine shells out to wkhtmltopdf. Conversion is gated by
// Converter.Enabled and HTML input is bounded by Converter.MaxHTMLBytes.
package reportpdf
