package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"

	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware reuses an incoming X-Request-ID or generates one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request after it completes.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

// RecoveryMiddleware turns a handler panic into a 500 so one bad request
// cannot take the process down.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.Any("panic", err),
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: http.StatusText(http.StatusInternalServerError)})
			}
		}()

		c.Next()
	}
}

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// CORSMiddleware allows the configured origins with credentials, every
// method and every requested header.
func CORSMiddleware(origins []string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		allowRequestedHeaders(),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
				http.MethodHead,
				http.MethodOptions,
			},
			AllowCredentials: true,
			ExposeHeaders:    []string{RequestIDHeader},
			MaxAge:           10 * time.Minute,
		}),
	}
}

// allowRequestedHeaders echoes a preflight's Access-Control-Request-Headers.
// A literal "*" is not honoured by browsers on credentialed requests.
func allowRequestedHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		c.Next()
	}
}

// GetRequestID returns the id set by RequestIDMiddleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
