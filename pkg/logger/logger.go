package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init construye el logger global. En "development" se usa salida de consola coloreada;
// en cualquier otro entorno, JSON con timestamp ISO8601. Un nivel desconocido cae a info.
func Init(level, env string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build(zap.Fields(zap.String("env", env)))
	if err != nil {
		panic(err)
	}
	log = built
}

// Sugar para mensajes printf-like (banner de arranque).
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

func Logger() *zap.Logger {
	return log
}
