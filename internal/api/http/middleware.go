package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/copperline/copperline/internal/logkey"
)

const (
	headerTraceID = "X-Trace-Id"
	ctxTraceID    = "trace_id"
	ctxSubject    = "subject"
)

// TraceID assigns each request a trace id, honoring one supplied by the
// caller, and echoes it in the response headers.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(headerTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(ctxTraceID, traceID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Next()
	}
}

func traceIDFrom(c *gin.Context) string {
	return c.GetString(ctxTraceID)
}

// RequestLogger logs one structured line per request after it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			slog.String(logkey.TraceID, traceIDFrom(c)),
			slog.String(logkey.Method, c.Request.Method),
			slog.String(logkey.Path, c.Request.URL.Path),
			slog.Int(logkey.Status, c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// Auth validates an HS256 bearer token and stores its subject on the
// request context.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if subject, err := claims.GetSubject(); err == nil && subject != "" {
			c.Set(ctxSubject, subject)
		}
		c.Next()
	}
}
