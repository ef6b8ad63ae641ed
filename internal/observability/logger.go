// Package observability sets up the process-wide zap logger.
package observability

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/san-kum/fieldsim/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorCyan   = "\x1b[36m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 14
)

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// Initialize builds the global logger once. console may be nil, in which
// case only the file sink (if any) receives entries; the terminal host uses
// that to keep the alternate screen clean.
func Initialize(cfg config.LogConfig, console zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		var cores []zapcore.Core
		if console != nil {
			cores = append(cores, zapcore.NewCore(encoder(cfg.Format), console, level))
		}
		if cfg.File != "" {
			w := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    maxSizeMB,
				MaxBackups: maxBackups,
				MaxAge:     maxAgeDays,
			})
			// Files are always JSON.
			cores = append(cores, zapcore.NewCore(encoder("json"), w, level))
		}

		logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("fieldsim")
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// InitializeLogger logs to stderr so command output on stdout stays clean.
func InitializeLogger(cfg config.LogConfig) {
	Initialize(cfg, zapcore.Lock(os.Stderr))
}

// ResetForTest clears the global logger. Tests only.
func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}

func encoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	if format == "json" {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = colorLevel
	ec.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(ec)
}

func colorLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	c := colorReset
	switch l {
	case zapcore.DebugLevel:
		c = colorCyan
	case zapcore.InfoLevel:
		c = colorGreen
	case zapcore.WarnLevel:
		c = colorYellow
	default:
		if l >= zapcore.ErrorLevel {
			c = colorRed
		}
	}
	enc.AppendString(c + strings.ToUpper(l.String()) + colorReset)
}

// GetLogger returns the global logger, or a no-op logger before
// initialisation.
func GetLogger() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Named is shorthand for GetLogger().Named(name).
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

// Sync flushes buffered entries, ignoring the errors stderr and pipes
// report on some platforms.
func Sync() {
	l := globalLogger.Load()
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "/dev/std") && !strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "operation not supported") && !strings.Contains(msg, "inappropriate ioctl") {
			fmt.Fprintln(os.Stderr, "fieldsim: failed to sync logger:", err)
		}
	}
}
