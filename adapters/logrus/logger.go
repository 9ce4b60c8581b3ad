package reportlogrus

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-report/report"
)

// TimestampLayout formats entry timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Formatter writes entries as "[time] [LEVL] msg key=value...".
type Formatter struct{}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", entry.Time.Format(TimestampLayout), level, entry.Message)
	for _, key := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// New builds a logrus logger writing to w (stdout when nil). Unknown levels
// fall back to info.
func New(level string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&Formatter{})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if w == nil {
		w = os.Stdout
	}
	log.SetOutput(w)
	return log
}

// Logger adapts a logrus.FieldLogger to report.Logger.
type Logger struct {
	entry logrus.FieldLogger
}

var _ report.Logger = Logger{}

// Wrap adapts log. A nil log discards output.
func Wrap(log logrus.FieldLogger) Logger {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return Logger{entry: log}
}

// With returns a Logger that adds the field to every entry.
func (l Logger) With(key string, value any) Logger {
	return Logger{entry: l.field().WithField(key, value)}
}

func (l Logger) Debugf(format string, args ...any) { l.field().Debugf(format, args...) }
func (l Logger) Infof(format string, args ...any)  { l.field().Infof(format, args...) }
func (l Logger) Warnf(format string, args ...any)  { l.field().Warnf(format, args...) }
func (l Logger) Errorf(format string, args ...any) { l.field().Errorf(format, args...) }

func (l Logger) field() logrus.FieldLogger {
	if l.entry == nil {
		return Wrap(nil).entry
	}
	return l.entry
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
