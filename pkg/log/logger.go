package log

import "time"

// Logger is the structured logger used by the upload pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every message.
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

func Strings(key string, value []string) Field { return Field{Key: key, Value: value} }

// Err creates a field under the key "error".
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Any creates a field rendered by the logger's generic encoder.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }
