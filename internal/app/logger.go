package app

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/logx"
)

// NewLogger builds the JSON logger selected by LOG_BACKEND.
func NewLogger(cfg *config.Config) logx.Logger {
	return newLogger(cfg.Log, os.Stdout)
}

func newLogger(cfg config.Log, w io.Writer) logx.Logger {
	level := logx.ParseLevel(cfg.Level)
	if cfg.Backend == "zap" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapLevel(level))
		return logx.NewZapAdapter(zap.New(core))
	}
	base := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.Slog(),
	}))
	return logx.NewSlogAdapter(base)
}

func zapLevel(l logx.Level) zapcore.Level {
	switch l {
	case logx.LevelDebug:
		return zapcore.DebugLevel
	case logx.LevelWarn:
		return zapcore.WarnLevel
	case logx.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
