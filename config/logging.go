package config

import "go.uber.org/zap"

// setLogger returns the zap logger for the given environment. Anything that is
// not production or development is treated as a local run and logs at debug.
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
}
