package log

import (
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
	DPanicLevel
	PanicLevel
	FatalLevel
)

// ParseLevel maps a textual level such as "debug" or "WARN" to a Level.
// Unknown text falls back to InfoLevel.
func ParseLevel(text string) Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return InfoLevel
	}
	return Level(l)
}

type OutputEncoder func(zapcore.EncoderConfig) zapcore.Encoder

var (
	JsonOutputEncoder    OutputEncoder = zapcore.NewJSONEncoder
	ConsoleOutputEncoder OutputEncoder = zapcore.NewConsoleEncoder
)

type LevelEncoder func(zapcore.Level, zapcore.PrimitiveArrayEncoder)

var (
	CapitalLevelEncoder LevelEncoder = zapcore.CapitalLevelEncoder
	BracketLevelEncoder LevelEncoder = func(level zapcore.Level, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString("[" + level.CapitalString() + "]")
	}
)

type CallerEncoder func(zapcore.EntryCaller, zapcore.PrimitiveArrayEncoder)

var (
	ShortCallerEncoder CallerEncoder = zapcore.ShortCallerEncoder
	FullCallerEncoder  CallerEncoder = zapcore.FullCallerEncoder
)
