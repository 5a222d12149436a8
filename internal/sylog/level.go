package sylog

import "strconv"

// messageLevel mirrors the severity ladder named in the runtime
// configuration's logging surface: Debug < Info < Warning < Error < Fatal.
type messageLevel int

const (
	DebugLevel messageLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l messageLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "LEVEL" + strconv.Itoa(int(l))
	}
}

func levelFromName(name string) (messageLevel, bool) {
	switch name {
	case "Debug":
		return DebugLevel, true
	case "Info":
		return InfoLevel, true
	case "Warning":
		return WarnLevel, true
	case "Error":
		return ErrorLevel, true
	case "Fatal":
		return FatalLevel, true
	default:
		return ErrorLevel, false
	}
}
