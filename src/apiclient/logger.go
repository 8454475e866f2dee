package apiclient

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the severity of a client log line.
type Level int32

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
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

// ParseLevel maps a -log-level value (debug, info, warn, warning, error) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// callLog is the process-wide sink for client diagnostics. Lines go to one
// writer; the CLI points it at the stderr it was handed.
type callLog struct {
	level atomic.Int32
	mu    sync.Mutex
	w     io.Writer
	out   *log.Logger
}

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds

var diag = newCallLog(os.Stderr)

func newCallLog(w io.Writer) *callLog {
	l := &callLog{w: w, out: log.New(w, "", logFlags)}
	l.level.Store(int32(LevelInfo))
	return l
}

// SetLogLevel sets the minimum level that is written. An unknown name leaves
// the level unchanged and is returned as an error.
func SetLogLevel(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	diag.level.Store(int32(l))
	return nil
}

// SetLogOutput redirects client logging to w and returns the previous writer,
// so callers can restore it with defer SetLogOutput(SetLogOutput(w)).
func SetLogOutput(w io.Writer) io.Writer {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	prev := diag.w
	diag.w = w
	diag.out = log.New(w, "", logFlags)
	return prev
}

func enabled(l Level) bool { return Level(diag.level.Load()) <= l }

func logf(l Level, format string, args ...interface{}) {
	if !enabled(l) {
		return
	}
	// Server text reaches here as the format; without args it is written as is
	// so a literal % survives.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	diag.mu.Lock()
	diag.out.Printf("[%s] %s", l, msg)
	diag.mu.Unlock()
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs how long the step named label took, at debug level.
// Use as defer TimeTrack(time.Now(), "LoadProgress").
func TimeTrack(start time.Time, label string) {
	if enabled(LevelDebug) {
		logf(LevelDebug, "%s took %s", label, time.Since(start).Round(time.Microsecond))
	}
}
