package logger

import (
	"fmt"
	"os"

	"github.com/itshubble/hubble-server/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ log.Logger = (*ZapLogger)(nil)

// ZapLogger 基于 zap 的 kratos log.Logger 适配器
type ZapLogger struct {
	logger *zap.Logger
}

// NewLogger 根据日志配置创建 logger，支持文件滚动与控制台输出
func NewLogger(c *conf.Log) *ZapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if c.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var syncer zapcore.WriteSyncer
	switch c.Output {
	case "file":
		syncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.FilePath,
			MaxSize:    c.MaxSize,
			MaxAge:     c.MaxAge,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		})
	case "both":
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.FilePath,
			MaxSize:    c.MaxSize,
			MaxAge:     c.MaxAge,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		})
		syncer = zapcore.NewMultiWriteSyncer(fileSyncer, zapcore.Lock(os.Stdout))
	default:
		syncer = zapcore.Lock(os.Stdout)
	}

	core := zapcore.NewCore(encoder, syncer, parseLevel(c.Level))
	return &ZapLogger{logger: zap.New(core)}
}

// Log 实现 kratos log.Logger 接口
func (l *ZapLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 || len(keyvals)%2 != 0 {
		l.logger.Warn(fmt.Sprint("keyvalues must appear in pairs: ", keyvals))
		return nil
	}

	var msg string
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	switch level {
	case log.LevelDebug:
		l.logger.Debug(msg, fields...)
	case log.LevelInfo:
		l.logger.Info(msg, fields...)
	case log.LevelWarn:
		l.logger.Warn(msg, fields...)
	case log.LevelError:
		l.logger.Error(msg, fields...)
	case log.LevelFatal:
		l.logger.Fatal(msg, fields...)
	}
	return nil
}

// Sync 刷新缓冲区
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch s {
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
