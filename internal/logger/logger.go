package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop()

func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log = l
	log.Info("logger initialized")
}

func Sync() {
	_ = log.Sync()
}

func Info(msg string, fields map[string]any) {
	log.Info(msg, zapFields(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, zapFields(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, zapFields(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatal(msg, zapFields(fields)...)
}

func zapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
