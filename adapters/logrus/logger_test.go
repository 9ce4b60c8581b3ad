package reportlogrus

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_FormatsEntries(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf)
	Wrap(log).With("request_id", "req-1").Infof("report pdf generated: bytes=%d", 42)

	line := buf.String()
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] report pdf generated: bytes=42 request_id=req-1\n$`)
	if !pattern.MatchString(line) {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("verbose", &buf)
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", log.GetLevel())
	}

	logger := Wrap(log)
	logger.Debugf("hidden")
	logger.Warnf("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("expected debug entry to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN] shown") {
		t.Fatalf("expected warning entry, got %q", buf.String())
	}
}

func TestLogger_ErrorLevelLabel(t *testing.T) {
	var buf bytes.Buffer
	Wrap(New("error", &buf)).Errorf("report pdf conversion failed")
	if !strings.Contains(buf.String(), "[ERRO] report pdf conversion failed") {
		t.Fatalf("unexpected log line %q", buf.String())
	}
}

func TestWrap_NilDiscards(t *testing.T) {
	var logger Logger
	logger.Infof("no panic")
	Wrap(nil).Errorf("discarded")
}
