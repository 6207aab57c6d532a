package Logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
	sink *MemorySink
}

// Sink exposes the in-memory entry buffer backing the system log view.
func (l *Logger) Sink() *MemorySink {
	return l.sink
}

// BuildLogger constructs the process logger. Every entry is additionally
// captured in a capped in-memory sink so the UI can show recent logs.
func BuildLogger(debug bool, sinkCap int) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"

	sink := NewMemorySink(sinkCap)
	logger, _ := cfg.Build(
		zap.AddCaller(),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, sink)
		}),
	)
	return &Logger{SugaredLogger: logger.Sugar(), sink: sink}
}

func New(debug bool, sinkCap int) *Logger {
	return BuildLogger(debug, sinkCap)
}
