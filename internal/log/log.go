package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds the process logger. Production uses JSON lines, anything else the
// development console encoder. When extra is non-nil every entry is also written
// there as JSON.
func Init(env string, extra io.Writer) error {
	l, err := build(env, os.Stdout, extra)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func build(env string, stdout, extra io.Writer) (*zap.Logger, error) {
	var cfg zap.Config
	prod := env == "production"
	if prod {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if extra == nil {
		return cfg.Build()
	}

	level := zap.NewAtomicLevelAt(cfg.Level.Level())
	stdoutEnc := zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	if prod {
		stdoutEnc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}
	console := zapcore.NewCore(stdoutEnc, zapcore.AddSync(stdout), level)
	file := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), zapcore.AddSync(extra), level)
	return zap.New(zapcore.NewTee(console, file), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Use swaps the process logger, mostly for tests.
func Use(l *zap.Logger) { logger = l }

func L() *zap.Logger { return logger }

func Sync() { _ = logger.Sync() }

func fieldsFor(c *fiber.Ctx, action string, err error, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, 8)
	out = append(out, zap.String("action", action))
	if c != nil {
		out = append(out,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			out = append(out, zap.String("req_id", rid))
		}
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	if len(fields) > 0 {
		out = append(out, zap.Any("fields", fields))
	}
	return out
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Info(action, fieldsFor(c, action, nil, fields)...)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Info(action, append(fieldsFor(c, action, nil, fields), zap.Bool("audit", true))...)
}

func Warn(c *fiber.Ctx, action string, err error, fields map[string]any) {
	logger.Warn(action, fieldsFor(c, action, err, fields)...)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Warn(action, append(fieldsFor(c, action, nil, fields), zap.Bool("security", true))...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	logger.Error(action, fieldsFor(c, action, err, fields)...)
}
