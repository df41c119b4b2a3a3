package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger captures log messages for assertions in tests.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	zerolog  *zerolog.Logger
	fields   map[string]interface{}
}

// LogMessage is a captured log entry.
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new capture logger.
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{
		zerolog: &nop,
		fields:  make(map[string]interface{}),
	}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.messages = append(l.messages, LogMessage{Level: level, Message: msg, Fields: merged})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// WithField returns a logger that attaches the field to every message. The
// captured messages still land in the parent TestLogger.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &forwardingLogger{parent: l, fields: merged}
}

func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}

// Messages returns a copy of the captured messages.
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasMessage reports whether any captured message contains the given text at
// the given level.
func (l *TestLogger) HasMessage(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

// forwardingLogger attaches fields but records into the parent TestLogger.
type forwardingLogger struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (f *forwardingLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(f.fields)+len(fields))
	for k, v := range f.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	f.parent.log(level, msg, merged)
}

func (f *forwardingLogger) Debug(msg string) { f.log("DEBUG", msg, nil) }
func (f *forwardingLogger) Info(msg string)  { f.log("INFO", msg, nil) }
func (f *forwardingLogger) Warn(msg string)  { f.log("WARN", msg, nil) }
func (f *forwardingLogger) Error(msg string) { f.log("ERROR", msg, nil) }
func (f *forwardingLogger) Fatal(msg string) { f.log("FATAL", msg, nil) }

func (f *forwardingLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	f.log("DEBUG", msg, fields)
}

func (f *forwardingLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	f.log("INFO", msg, fields)
}

func (f *forwardingLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	f.log("WARN", msg, fields)
}

func (f *forwardingLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	f.log("ERROR", msg, fields)
}

func (f *forwardingLogger) WithField(key string, value interface{}) Logger {
	merged := make(map[string]interface{}, len(f.fields)+1)
	for k, v := range f.fields {
		merged[k] = v
	}
	merged[key] = value
	return &forwardingLogger{parent: f.parent, fields: merged}
}

func (f *forwardingLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(f.fields)+len(fields))
	for k, v := range f.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &forwardingLogger{parent: f.parent, fields: merged}
}

func (f *forwardingLogger) WithError(err error) Logger {
	if err == nil {
		return f
	}
	return f.WithField("error", err.Error())
}

func (f *forwardingLogger) GetZerolog() *zerolog.Logger {
	return f.parent.zerolog
}
