// Package logging builds the zap logger shared by the command line tools.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a console logger writing to opts.Output.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(out), zap.NewAtomicLevelAt(level))

	logger := zap.New(core)
	if opts.Debug {
		logger = logger.WithOptions(zap.AddCaller())
	}
	return logger
}
