package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Component: ComponentApp, Handler: slog.NewTextHandler(buf, nil)})
}

func TestWithComponentReplacesTag(t *testing.T) {
	var buf bytes.Buffer
	l := newBufLogger(&buf).With(FieldDate, "2024-08-01").WithComponent(ComponentWorker)
	l.Info("hello")

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=worker") {
		t.Errorf("component tag wrong: %s", out)
	}
	if !strings.Contains(out, "date=2024-08-01") {
		t.Errorf("attribute lost: %s", out)
	}
	if l.Component() != ComponentWorker {
		t.Errorf("Component() = %q", l.Component())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddlewareAddsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(newBufLogger(&buf), func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=req_1") || !strings.Contains(out, "component=http") {
		t.Errorf("request logger missing fields: %s", out)
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Logger == nil {
		t.Fatal("FromContext must fall back to a usable logger")
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithRange("2024-08-01", "2024-08-31").WithOperation(OpReplaceDay).WithError(nil)
	if len(f.ToSlice()) != 6 {
		t.Errorf("ToSlice = %v", f.ToSlice())
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error must not add a field")
	}
}
