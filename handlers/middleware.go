package handlers

import (
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-api/auth"
	"volunteer-api/metrics"
	"volunteer-api/models"
	"volunteer-api/service"
)

const callerKey = "caller"

// RequestLogger logs every request with its status and duration.
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		duration := time.Since(start)
		m.ObserveRequest(c.Request.Method, route, status, duration)

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery turns panics into a 500 response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("trace", string(debug.Stack())),
				)
				respondMessage(c, http.StatusInternalServerError, "Server error")
			}
		}()
		c.Next()
	}
}

// RateLimit allows limit requests per client IP in each fixed window.
// A non-positive limit disables it.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var (
		mu        sync.Mutex
		visitors  = make(map[string]int)
		lastReset = time.Now()
	)

	return func(c *gin.Context) {
		mu.Lock()

		if time.Since(lastReset) > window {
			visitors = make(map[string]int)
			lastReset = time.Now()
		}

		ip := c.ClientIP()
		if visitors[ip] >= limit {
			mu.Unlock()
			respondMessage(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		visitors[ip]++
		mu.Unlock()

		c.Next()
	}
}

// Authenticate requires a valid bearer credential.
func (h *Handlers) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := h.verifier.VerifyHeader(c.GetHeader("Authorization"))
		if err != nil {
			respondMessage(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not role. It must run after
// Authenticate.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)
		if caller == nil {
			respondMessage(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if caller.Role != role {
			respondMessage(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

// OptionalCaller resolves the caller when a credential is present. Invalid
// or expired credentials are treated as anonymous.
func (h *Handlers) OptionalCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller := h.verifier.Resolve(c.GetHeader("Authorization")); caller != nil {
			c.Set(callerKey, caller)
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) *auth.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*auth.Caller)
	return caller
}

func viewerFrom(c *gin.Context) *service.Viewer {
	caller := callerFrom(c)
	if caller == nil {
		return nil
	}
	return &service.Viewer{ID: caller.ID, Role: caller.Role}
}
