package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures NewZapLogger's rotation and verbosity, mirroring
// conf.Logger's fields.
type Options struct {
	Path       string
	Level      string
	Caller     bool
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// NewZapLogger builds a zap-backed Logger, rotated through lumberjack
// when Path is set, otherwise writing to stderr.
func NewZapLogger(o Options) Logger {
	var sink zapcore.WriteSyncer
	if o.Path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.Path,
			MaxSize:    nonZero(o.MaxSize, 100),
			MaxAge:     nonZero(o.MaxAge, 7),
			MaxBackups: nonZero(o.MaxBackups, 5),
			Compress:   o.Compress,
			LocalTime:  true,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.LevelKey = ""

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), sink, zapLevel(o.Level))

	zapOpts := make([]zap.Option, 0, 1)
	if o.Caller {
		zapOpts = append(zapOpts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	return &zapAdapter{sugar: zap.New(core, zapOpts...).Sugar()}
}

func nonZero(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func zapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (z *zapAdapter) Log(level Level, keyvals ...any) error {
	switch level {
	case LevelDebug:
		z.sugar.Debugw("", keyvals...)
	case LevelWarn:
		z.sugar.Warnw("", keyvals...)
	case LevelError:
		z.sugar.Errorw("", keyvals...)
	case LevelFatal:
		z.sugar.Errorw("", keyvals...)
	default:
		z.sugar.Infow("", keyvals...)
	}
	return nil
}
