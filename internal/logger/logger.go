package logger

import (
	"strings"

	"github.com/simaogato/wealthflow-engine/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	encodingJSON    = "json"
	encodingConsole = "console"
)

// New builds the process logger from the log section of the config.
// Entries go to stderr so command output on stdout stays machine readable.
// An unparseable level falls back to info and an empty encoding to json.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoding := strings.ToLower(cfg.Encoding)
	if encoding == "" {
		encoding = encodingJSON
	}

	encoder := zap.NewProductionEncoderConfig()
	if encoding == encodingConsole {
		encoder = zap.NewDevelopmentEncoderConfig()
	}
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	var sampling *zap.SamplingConfig
	if cfg.Sampling {
		sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling:          sampling,
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}.Build()
}
