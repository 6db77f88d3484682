package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Fields represents structured log fields
type Fields map[string]interface{}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	std      = log.New(os.Stderr, "", log.LstdFlags)
)

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

func enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return l >= minLevel
}

func write(l Level, line string) {
	if !enabled(l) {
		return
	}
	std.Printf("[%s] %s", l, line)
}

func breadcrumb(l Level, level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:      strings.ToLower(l.String()),
			Category:  "log",
			Message:   msg,
			Data:      fields,
			Level:     level,
			Timestamp: time.Now(),
		})
	}
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	write(LevelDebug, msg+formatFields(fields))
	breadcrumb(LevelDebug, sentry.LevelDebug, msg, fields)
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	write(LevelInfo, msg+formatFields(fields))
	breadcrumb(LevelInfo, sentry.LevelInfo, msg, fields)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	write(LevelWarn, msg+formatFields(fields))
	breadcrumb(LevelWarn, sentry.LevelWarning, msg, fields)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	write(LevelError, fmt.Sprintf("%s: %v%s", msg, err, formatFields(fields)))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			if sessionID, ok := fields["session_id"].(string); ok {
				scope.SetTag("session_id", sessionID)
			}
			hub.CaptureException(err)
		})
	}
}

// formatFields renders fields as " {k=v, ...}" with sorted keys
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
