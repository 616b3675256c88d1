package logger

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// GetLogger returns zap.Logger instance, but using singleton pattern creates only one reusable instace.
// LOG_MODE=production selects the JSON production config, anything else gets development config.
// The mode is read here rather than through the config layer, the logger is built at package
// init time before any config is parsed.
func GetLogger() *zap.Logger {
	once.Do(func() {
		_ = godotenv.Load()
		var err error
		if os.Getenv("LOG_MODE") == "production" {
			logger, err = zap.NewProduction()
		} else {
			logger, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}

	})
	return logger
}
