package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	NONE
)

var (
	level  = INFO
	sugar  = newSugar(os.Stderr, nil)
	closer func() error
)

// ParseLevel maps a config string to a LogLevel. Unknown values fall back to INFO.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	case "none":
		return NONE
	default:
		return INFO
	}
}

func Init(logfilePath string, levelStr string) error {
	level = ParseLevel(levelStr)

	var file *lumberjack.Logger
	if logfilePath != "" {
		dir := filepath.Dir(logfilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		file = &lumberjack.Logger{
			Filename:   logfilePath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
		}
	}

	Sync()
	sugar = newSugar(os.Stderr, file)
	if file != nil {
		closer = file.Close
	} else {
		closer = nil
	}
	return nil
}

// Sync flushes buffered entries and closes the rotating file, if any.
func Sync() {
	_ = sugar.Sync()
	if closer != nil {
		_ = closer()
		closer = nil
	}
}

func newSugar(console zapcore.WriteSyncer, file *lumberjack.Logger) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.NameKey = "logger"

	// level filtering happens in the helpers below, zap sees everything
	enabled := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(console), enabled),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(file), enabled))
	}
	return zap.New(zapcore.NewTee(cores...)).Named("sentiment").Sugar()
}

func Debug(msg string, args ...any) {
	if level <= DEBUG {
		sugar.Debugf(msg, args...)
	}
}
func Info(msg string, args ...any) {
	if level <= INFO {
		sugar.Infof(msg, args...)
	}
}
func Warn(msg string, args ...any) {
	if level <= WARN {
		sugar.Warnf(msg, args...)
	}
}
func Error(msg string, args ...any) {
	if level <= ERROR {
		sugar.Errorf(msg, args...)
	}
}
