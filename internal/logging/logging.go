package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/gemnoir/jewelry-api/configs"
)

// L is the process-wide logger. Init must run before anything logs.
var L = zap.NewNop()

func Init(cfg config.ServerConfig) {
	var (
		logger *zap.Logger
		err    error
	)

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	L = logger
}

// RequestLogger logs one line per completed HTTP request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case c.Writer.Status() >= 500:
			L.Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			L.Warn("request completed", fields...)
		default:
			L.Info("request completed", fields...)
		}
	}
}
