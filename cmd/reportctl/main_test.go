package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDocument = `
title: "<b>Quarterly</b> Review"
author: Ada
date: 2024-03-01
document_type: Technical Report
sections:
  - title: Intro
    content: |
      First line
      Second line
`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestRun_HTMLToStdout(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "UTC")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-format", "html", "-out", "-", writeDocument(t, testDocument)}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}

	body := stdout.String()
	for _, want := range []string{"<p>First line</p>", "<p>Second line</p>", "Preview Mode", "&lt;b&gt;Quarterly&lt;/b&gt;"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output, got %s", want, body)
		}
	}
}

func TestRun_HTMLToFile(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "UTC")
	out := filepath.Join(t.TempDir(), "out.html")
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-format", "HTML", "-out", out, writeDocument(t, testDocument)}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), "Intro") {
		t.Fatalf("expected section in output")
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout")
	}
	if !strings.Contains(stderr.String(), "wrote "+out) {
		t.Fatalf("expected write log, got %q", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	doc := writeDocument(t, testDocument)
	cases := map[string][]string{
		"no document":    {},
		"bad format":     {"-format", "docx", doc},
		"missing file":   {"-format", "html", filepath.Join(t.TempDir(), "missing.yaml")},
		"invalid fields": {"-format", "html", "-out", "-", writeDocument(t, "title: only\n")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), args, &stdout, &stderr); err == nil {
				t.Fatalf("expected error")
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no output, got %q", stdout.String())
			}
		})
	}
}
