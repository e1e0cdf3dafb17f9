// Package logger writes leveled diagnostics to stderr so the retrieval and
// answer pipeline can be traced. Errors are always printed; everything else
// is gated by the level, which --verbose raises to LevelDebug.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders messages by importance. A message is printed when its level
// is at or below the configured one.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

func (l Level) String() string {
	if l < LevelError || l > LevelDebug {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts a level name in any case, as used by PATHOK_LOG_LEVEL.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelError, fmt.Errorf("unknown log level %q", s)
}

var (
	mu     sync.Mutex
	level            = LevelError
	output io.Writer = os.Stderr
)

// SetLevel sets the most verbose level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// CurrentLevel returns the configured level.
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// SetVerbose switches between LevelDebug and LevelError.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelError)
	}
}

// IsVerbose reports whether debug messages are printed.
func IsVerbose() bool {
	return CurrentLevel() >= LevelDebug
}

// SetOutput redirects log output. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }
func Info(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Section prints a stage header at debug level.
func Section(name string) {
	write(LevelDebug, "\n=== "+name+" ===\n")
}

// Since logs at debug level how long a pipeline stage took.
//
//	defer logger.Since("retrieval", time.Now())
func Since(stage string, start time.Time) {
	Debug("%s took %s", stage, time.Since(start).Round(time.Millisecond))
}

func logf(l Level, format string, args ...any) {
	write(l, "["+l.String()+"] "+fmt.Sprintf(format, args...)+"\n")
}

func write(l Level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if l <= level {
		_, _ = io.WriteString(output, msg)
	}
}
