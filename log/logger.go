package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	rootLogger Logger
	mutex      = &sync.Mutex{}
)

type Logger interface {
	Named(name string) Logger
	With(args ...interface{}) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})

	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) With(args ...interface{}) Logger {
	return &logger{l.SugaredLogger.With(args...)}
}

// Global returns the root logger. Before Setup is called it discards everything.
func Global() Logger {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger == nil {
		return &logger{zap.NewNop().Sugar()}
	}
	return rootLogger
}

// Setup installs the root logger, it can only be called once.
func Setup(options *Options) {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger != nil {
		rootLogger.Warn("can't re setup root logger")
		return
	}
	rootLogger = New(options)
}

// New builds a logger from options without touching the root logger.
func New(options *Options) Logger {
	var (
		infoWriteSyncers = options.infoWriteSyncers
		errWriteSyncers  = options.errWriteSyncers
		opts             []zap.Option
		encoderConfig    = zap.NewProductionEncoderConfig()
	)
	if len(infoWriteSyncers) == 0 {
		infoWriteSyncers = append(infoWriteSyncers, zapcore.AddSync(os.Stdout))
	}
	if len(errWriteSyncers) == 0 {
		errWriteSyncers = append(errWriteSyncers, zapcore.AddSync(os.Stderr))
	}

	if options.callerEncoder != nil {
		opts = append(opts, zap.AddCaller())
		encoderConfig.EncodeCaller = zapcore.CallerEncoder(options.callerEncoder)
	}
	encoderConfig.EncodeLevel = zapcore.LevelEncoder(options.levelEncoder)
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(options.timeLayout)
	encoderConfig.ConsoleSeparator = " "

	level := zapcore.Level(options.level)
	cores := []zapcore.Core{zapcore.NewCore(
		options.outputEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(infoWriteSyncers...),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level && lvl < zapcore.WarnLevel
		}),
	), zapcore.NewCore(
		options.outputEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(errWriteSyncers...),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= level && lvl >= zapcore.WarnLevel
		}),
	)}

	if options.stacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}
	sugared := zap.New(zapcore.NewTee(cores...), opts...).Sugar()
	if options.name != "" {
		sugared = sugared.Named(options.name)
	}
	return &logger{sugared}
}
