package logger

import (
	"fmt"

	"github.com/Leopold1975/feedback_control/internal/pkg/config"
	"go.uber.org/zap"
)

type Logger interface {
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
}

func New(cfg config.Logger) (Logger, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = lvl

	if len(cfg.Output) != 0 {
		zapCfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zapCfg.ErrorOutputPaths = cfg.ErrOutput
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return zl.Sugar(), nil
}
