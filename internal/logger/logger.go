package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide zap logger. Production gets JSON on stdout for
// log shippers; everything else gets the colored development console.
func New(env string) (*zap.Logger, error) {
	var config zap.Config
	switch env {
	case "production":
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}
