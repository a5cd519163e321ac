// ABOUTME: Zap logger construction for the player
// ABOUTME: TUI mode logs to the file only, console mode also to stdout
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how much is logged
type Options struct {
	File   string
	Stdout bool
	Debug  bool
}

// New builds a logger writing to the configured sinks
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	paths := []string{}
	if opts.File != "" {
		paths = append(paths, opts.File)
	}
	if opts.Stdout {
		paths = append(paths, "stdout")
	}
	if len(paths) == 0 {
		return zap.NewNop(), nil
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       paths,
		ErrorOutputPaths:  paths,
		DisableStacktrace: true,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("error opening log sinks: %w", err)
	}
	return logger, nil
}
