package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pable/hoopstats/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// observe logs and records metrics for every request.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.Request.Method, route, status, elapsed)

		fields := []logger.Field{
			logger.String("request_id", c.GetString("request_id")),
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("elapsed", elapsed),
		}
		if status >= http.StatusInternalServerError {
			s.log.Error(c.Request.Context(), "request failed", fields...)
			return
		}
		s.log.Debug(c.Request.Context(), "request served", fields...)
	}
}

// cors allows the configured browser origins with any method and header.
func cors(origins []string) gin.HandlerFunc {
	wildcard := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || slices.Contains(origins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if c.Request.Method == http.MethodOptions {
				method := c.GetHeader("Access-Control-Request-Method")
				if method == "" {
					method = "GET, POST, PUT, DELETE, OPTIONS"
				}
				h.Set("Access-Control-Allow-Methods", method)
				if hdrs := c.GetHeader("Access-Control-Request-Headers"); hdrs != "" {
					h.Set("Access-Control-Allow-Headers", strings.TrimSpace(hdrs))
				}
				h.Set("Access-Control-Max-Age", "600")
				c.AbortWithStatus(http.StatusOK)
				return
			}
		}
		c.Next()
	}
}
