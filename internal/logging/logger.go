package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger for the command line.
type Logger struct {
	*zap.Logger
}

// New returns a console logger writing to stderr, so command output on
// stdout stays clean. Without debug only warnings and errors are shown.
func New(debug bool) *Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Development = debug
	cfg.DisableCaller = !debug
	cfg.DisableStacktrace = !debug
	cfg.EncoderConfig.TimeKey = zapcore.OmitKey
	if !debug {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		// stderr could not be opened
		return NewNop()
	}
	return &Logger{Logger: logger}
}

// NewNop creates a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
