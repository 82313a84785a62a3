// Package logging builds the zap logger shared by both binaries. The
// product server logs to stderr only: stdout is the protocol stream and
// must carry nothing but response frames.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type config struct {
	level       string
	filename    string
	serviceName string
	stderrOnly  bool
}

// Option mutates the logger configuration.
type Option func(*config)

// WithLevel sets the minimum log level (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(c *config) {
		if level != "" {
			c.level = level
		}
	}
}

// WithFilename enables rotated file logging.
func WithFilename(filename string) Option {
	return func(c *config) { c.filename = filename }
}

// WithServiceName tags every entry with a service field.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithStderrOnly routes console output to stderr instead of stdout.
func WithStderrOnly() Option {
	return func(c *config) { c.stderrOnly = true }
}

// New builds a SugaredLogger and a flush func to defer in main.
func New(opts ...Option) (*zap.SugaredLogger, func()) {
	cfg := config{level: "info"}
	for _, opt := range opts {
		opt(&cfg)
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	console := os.Stdout
	if cfg.stderrOnly {
		console = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(console), level),
	}
	if cfg.filename != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.filename,
				MaxSize:    10, // MB
				MaxBackups: 7,
				MaxAge:     30, // days
				Compress:   true,
			}),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if cfg.serviceName != "" {
		logger = logger.With(zap.String("service", cfg.serviceName))
	}

	sugared := logger.Sugar()
	return sugared, func() { _ = sugared.Sync() }
}
