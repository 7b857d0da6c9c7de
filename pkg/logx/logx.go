package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level controla la verbosidad del logger
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stderr, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel establece el nivel mínimo de log
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(l Level, tag, msg string) {
	if !enabled(l) {
		return
	}
	std.Printf("%s %s", tag, msg)
}

func Debug(msg string)                  { output(LevelDebug, "DEBUG", msg) }
func Debugf(format string, args ...any) { output(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)) }
func Info(msg string)                   { output(LevelInfo, "INFO", msg) }
func Infof(format string, args ...any)  { output(LevelInfo, "INFO", fmt.Sprintf(format, args...)) }
func Warn(msg string)                   { output(LevelWarn, "WARN", msg) }
func Warnf(format string, args ...any)  { output(LevelWarn, "WARN", fmt.Sprintf(format, args...)) }
func Error(msg string)                  { output(LevelError, "ERROR", msg) }
func Errorf(format string, args ...any) { output(LevelError, "ERROR", fmt.Sprintf(format, args...)) }

// Fatalf loguea y termina el proceso
func Fatalf(format string, args ...any) {
	std.Printf("FATAL %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Fields son pares clave-valor estructurados adjuntos a una entrada
type Fields map[string]any

// Entry es un logger con campos estructurados adjuntos
type Entry struct {
	fields Fields
}

// WithFields crea una entrada con campos estructurados
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// WithField agrega un campo a la entrada
func (e *Entry) WithField(key string, value any) *Entry {
	merged := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		merged[k] = v
	}
	merged[key] = value
	return &Entry{fields: merged}
}

func (e *Entry) suffix() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.fields[k]))
	}
	return " | " + strings.Join(parts, " ")
}

func (e *Entry) Debug(msg string) { output(LevelDebug, "DEBUG", msg+e.suffix()) }
func (e *Entry) Info(msg string)  { output(LevelInfo, "INFO", msg+e.suffix()) }
func (e *Entry) Warn(msg string)  { output(LevelWarn, "WARN", msg+e.suffix()) }
func (e *Entry) Error(msg string) { output(LevelError, "ERROR", msg+e.suffix()) }

func (e *Entry) Debugf(format string, args ...any) {
	output(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)+e.suffix())
}

func (e *Entry) Infof(format string, args ...any) {
	output(LevelInfo, "INFO", fmt.Sprintf(format, args...)+e.suffix())
}

func (e *Entry) Warnf(format string, args ...any) {
	output(LevelWarn, "WARN", fmt.Sprintf(format, args...)+e.suffix())
}

func (e *Entry) Errorf(format string, args ...any) {
	output(LevelError, "ERROR", fmt.Sprintf(format, args...)+e.suffix())
}
