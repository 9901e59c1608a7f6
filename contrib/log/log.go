// Package log is a small structured-logging facade in front of
// go.uber.org/zap: a Logger is anything that accepts leveled keyvals, a
// Helper wraps one with the Debugf/Infof/Warnf/Errorf/Fatalf convenience
// methods call sites actually use, and With/Timestamp/Context thread
// fixed or request-scoped fields (a request id, a pid) through every log
// line without every call site repeating them.
package log

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// Level is a log severity, ordered least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Valuer computes a keyval's value at the moment a line is logged, e.g. a
// timestamp or a request id pulled from context.
type Valuer func() any

// Timestamp returns a Valuer formatting time.Now in layout, for use with
// With: log.With(logger, "ts", log.Timestamp(time.RFC3339)).
func Timestamp(layout string) Valuer {
	return func() any { return time.Now().Format(layout) }
}

// Logger is the minimal structured-logging capability everything else in
// this package is built on.
type Logger interface {
	Log(level Level, keyvals ...any) error
}

// With wraps a Logger, prepending a fixed set of keyvals to every line it
// logs. A value that is itself a Valuer is resolved fresh on each call,
// so log.With(l, "ts", log.Timestamp(time.RFC3339)) stamps the current
// time rather than the time With was called.
func With(l Logger, kv ...any) Logger {
	return &withLogger{logger: l, kv: kv}
}

type withLogger struct {
	logger Logger
	kv     []any
}

func (w *withLogger) Log(level Level, keyvals ...any) error {
	all := make([]any, 0, len(w.kv)+len(keyvals))
	for i := 0; i+1 < len(w.kv); i += 2 {
		v := w.kv[i+1]
		if fn, ok := v.(Valuer); ok {
			v = fn()
		}
		all = append(all, w.kv[i], v)
	}
	all = append(all, keyvals...)
	return w.logger.Log(level, all...)
}

// stdLogger is the initial default Logger: plain text to a writer. It stays
// in use until SetLogger installs another; NewZapLogger builds a zap-backed
// alternative, but nothing in this module installs one.
type stdLogger struct {
	mu sync.Mutex
	w  *os.File
}

// NilLogger discards everything; useful in tests.
var NilLogger Logger = nilLogger{}

type nilLogger struct{}

func (nilLogger) Log(Level, ...any) error { return nil }

func (s *stdLogger) Log(level Level, keyvals ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "[%s]", level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(s.w, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(s.w)
	return nil
}

var (
	mu            sync.RWMutex
	defaultLogger Logger = &stdLogger{w: os.Stderr}
)

// DefaultLogger is the bare pre-config-load logger, wrapped with
// process-wide fields (ts, pid) by main's init before anything else logs.
var DefaultLogger = defaultLogger

// SetLogger installs l as the process-wide default.
func SetLogger(l Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// GetLogger returns the current process-wide default.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Helper is the leveled, printf-style wrapper call sites use directly:
// log.NewHelper(logger).Infof("...", args...).
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, msg string) {
	_ = h.logger.Log(level, "msg", msg)
}

func (h *Helper) Debug(a ...any)                 { h.log(LevelDebug, fmt.Sprint(a...)) }
func (h *Helper) Debugf(format string, a ...any) { h.log(LevelDebug, fmt.Sprintf(format, a...)) }
func (h *Helper) Info(a ...any)                  { h.log(LevelInfo, fmt.Sprint(a...)) }
func (h *Helper) Infof(format string, a ...any)  { h.log(LevelInfo, fmt.Sprintf(format, a...)) }
func (h *Helper) Warn(a ...any)                  { h.log(LevelWarn, fmt.Sprint(a...)) }
func (h *Helper) Warnf(format string, a ...any)  { h.log(LevelWarn, fmt.Sprintf(format, a...)) }
func (h *Helper) Error(a ...any)                 { h.log(LevelError, fmt.Sprint(a...)) }
func (h *Helper) Errorf(format string, a ...any) { h.log(LevelError, fmt.Sprintf(format, a...)) }

func (h *Helper) Fatal(a ...any) {
	h.log(LevelFatal, fmt.Sprint(a...))
	os.Exit(1)
}

func (h *Helper) Fatalf(format string, a ...any) {
	h.log(LevelFatal, fmt.Sprintf(format, a...))
	os.Exit(1)
}

// Package-level convenience functions bind to the current default logger
// at call time, for call sites that want a one-off line without holding
// onto a Helper.
func Debug(a ...any)                 { NewHelper(GetLogger()).Debug(a...) }
func Debugf(format string, a ...any) { NewHelper(GetLogger()).Debugf(format, a...) }
func Info(a ...any)                  { NewHelper(GetLogger()).Info(a...) }
func Infof(format string, a ...any)  { NewHelper(GetLogger()).Infof(format, a...) }
func Warn(a ...any)                  { NewHelper(GetLogger()).Warn(a...) }
func Warnf(format string, a ...any)  { NewHelper(GetLogger()).Warnf(format, a...) }
func Error(a ...any)                 { NewHelper(GetLogger()).Error(a...) }
func Errorf(format string, a ...any) { NewHelper(GetLogger()).Errorf(format, a...) }
func Fatal(a ...any)                 { NewHelper(GetLogger()).Fatal(a...) }
func Fatalf(format string, a ...any) { NewHelper(GetLogger()).Fatalf(format, a...) }

type ctxKey struct{}

// NewContext attaches h to ctx, so a request-scoped Helper (carrying a
// request id) flows down the call path without a parameter on every
// function signature.
func NewContext(ctx context.Context, h *Helper) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// Context returns the Helper NewContext attached to ctx, or a Helper over
// the current default logger if none was attached.
func Context(ctx context.Context) *Helper {
	if h, ok := ctx.Value(ctxKey{}).(*Helper); ok {
		return h
	}
	return NewHelper(GetLogger())
}
