package config

import (
	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger builds the process logger. APP_ENV=development switches to the
// human-readable console encoder.
func InitLogger() (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if EnvOrDefault("APP_ENV", "production") == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	Logger = l
	return l, nil
}
