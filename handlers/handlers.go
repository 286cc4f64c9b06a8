package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-api/auth"
	"volunteer-api/service"
)

// Pinger reports store health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	svc      *service.Service
	verifier *auth.Verifier
	store    Pinger
	logger   *zap.Logger
}

func New(svc *service.Service, verifier *auth.Verifier, store Pinger, logger *zap.Logger) *Handlers {
	return &Handlers{
		svc:      svc,
		verifier: verifier,
		store:    store,
		logger:   logger.Named("http"),
	}
}

// respondMessage writes the error envelope {"error":{"message":...}}.
func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": message}})
}

// respondError maps a service error onto the HTTP error taxonomy. Anything
// unexpected is logged and reported as a bare server error.
func (h *Handlers) respondError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondMessage(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrEventNotFound):
		respondMessage(c, http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrRegistrationNotFound):
		respondMessage(c, http.StatusNotFound, "Registration not found")
	case errors.Is(err, service.ErrSavedEventNotFound):
		respondMessage(c, http.StatusNotFound, "Saved event not found")
	case errors.Is(err, service.ErrEventFull):
		respondMessage(c, http.StatusBadRequest, "Event is full")
	case errors.Is(err, service.ErrAlreadyRegistered):
		respondMessage(c, http.StatusBadRequest, "You have already registered")
	case errors.Is(err, service.ErrAlreadySaved):
		respondMessage(c, http.StatusBadRequest, "Event already saved")
	case errors.Is(err, service.ErrInvalidTransition):
		respondMessage(c, http.StatusBadRequest, "Invalid status transition")
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Server error")
	}
}

// Health pings the store.
func (h *Handlers) Health(c *gin.Context) {
	if err := h.store.PingContext(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
