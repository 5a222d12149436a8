// Package sylog implements the leveled logger shared by every ll-box
// component. It follows the shape of the teacher's own pkg/sylog: a
// package-level threshold read from an environment variable, one writer
// function per level, colorized when the destination is a terminal.
package sylog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

var levelColor = map[messageLevel]*color.Color{
	FatalLevel: color.New(color.FgRed, color.Bold),
	ErrorLevel: color.New(color.FgRed),
	WarnLevel:  color.New(color.FgYellow),
	InfoLevel:  color.New(color.FgBlue),
	DebugLevel: color.New(color.FgCyan),
}

var (
	loggerLevel = ErrorLevel
	logWriter   = io.Writer(os.Stderr)
)

func init() {
	loggerLevel = levelFromEnv(os.Getenv("LINGLONG_LOG_LEVEL"))
}

func levelFromEnv(raw string) messageLevel {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrorLevel
	}
	if l, ok := levelFromName(raw); ok {
		return l
	}
	return ErrorLevel
}

func prefix(msgLevel messageLevel) string {
	tag := fmt.Sprintf("%-8s", msgLevel.String()+":")
	if c, ok := levelColor[msgLevel]; ok && color.NoColor == false {
		tag = c.Sprint(tag)
	}
	if msgLevel == DebugLevel {
		pc, _, _, ok := runtime.Caller(3)
		if ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				parts := strings.Split(fn.Name(), ".")
				tag += fmt.Sprintf("[%s] ", parts[len(parts)-1])
			}
		}
	}
	return tag + " "
}

func writef(msgLevel messageLevel, format string, a ...interface{}) {
	if msgLevel < loggerLevel {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	fmt.Fprintf(logWriter, "%s%s\n", prefix(msgLevel), msg)
}

// Fatalf logs a Fatal-level message and terminates the process with a
// non-zero status, per the "Fatal log" error kind of the error handling
// design: reaching Fatal always ends the process.
func Fatalf(format string, a ...interface{}) {
	writef(FatalLevel, format, a...)
	os.Exit(1)
}

// Errorf logs an error without altering control flow; the caller is
// expected to also return the error up the stack.
func Errorf(format string, a ...interface{}) { writef(ErrorLevel, format, a...) }

// Warningf logs a recoverable anomaly, e.g. an abnormal child exit or a
// clamped configuration value.
func Warningf(format string, a ...interface{}) { writef(WarnLevel, format, a...) }

// Infof logs routine progress through the container construction pipeline.
func Infof(format string, a ...interface{}) { writef(InfoLevel, format, a...) }

// Debugf logs fine-grained diagnostic detail, including the calling
// function name.
func Debugf(format string, a ...interface{}) { writef(DebugLevel, format, a...) }

// SetWriter redirects log output and returns the previous writer, so that
// tests can capture what was logged.
func SetWriter(w io.Writer) io.Writer {
	old := logWriter
	if w != nil {
		logWriter = w
	}
	return old
}

// SetLevel overrides the threshold programmatically (tests only; normal
// operation is controlled entirely by LINGLONG_LOG_LEVEL).
func SetLevel(l int) {
	loggerLevel = messageLevel(l)
}
