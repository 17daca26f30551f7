package log

import "go.uber.org/zap/zapcore"

type Options struct {
	//output encoder, JsonOutputEncoder or ConsoleOutputEncoder
	outputEncoder OutputEncoder
	//minimum enabled level
	level Level
	//report caller, nil disables it
	callerEncoder CallerEncoder
	levelEncoder  LevelEncoder
	//report warn level stack trace
	stacktrace bool
	timeLayout string
	//root logger name
	name string
	//defaults to stdout and stderr
	infoWriteSyncers []zapcore.WriteSyncer
	errWriteSyncers  []zapcore.WriteSyncer
}

func (o *Options) WithStacktrace(stacktrace bool) *Options {
	o.stacktrace = stacktrace
	return o
}

func (o *Options) WithTimeLayout(timeLayout string) *Options {
	o.timeLayout = timeLayout
	return o
}

func (o *Options) WithOutputEncoder(outputEncoder OutputEncoder) *Options {
	o.outputEncoder = outputEncoder
	return o
}

func (o *Options) WithLevel(level Level) *Options {
	o.level = level
	return o
}

func (o *Options) WithCallerEncoder(callerEncoder CallerEncoder) *Options {
	o.callerEncoder = callerEncoder
	return o
}

func (o *Options) WithLevelEncoder(encoder LevelEncoder) *Options {
	o.levelEncoder = encoder
	return o
}

func (o *Options) WithNamed(name string) *Options {
	o.name = name
	return o
}

// WithWriteSyncers replaces stdout (below warn) and stderr (warn and above).
func (o *Options) WithWriteSyncers(info, err zapcore.WriteSyncer) *Options {
	o.infoWriteSyncers = []zapcore.WriteSyncer{info}
	o.errWriteSyncers = []zapcore.WriteSyncer{err}
	return o
}

func DefaultOptions() *Options {
	return &Options{level: InfoLevel,
		timeLayout:    "02/Jan/2006:15:04:05 -0700",
		levelEncoder:  BracketLevelEncoder,
		outputEncoder: JsonOutputEncoder, callerEncoder: nil}
}
