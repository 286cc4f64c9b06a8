package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPending handles GET /api/admin/events/pending
func (h *Handlers) ListPending(c *gin.Context) {
	events, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		h.respondError(c, "list pending events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Approve handles POST /api/admin/events/:id/approve
func (h *Handlers) Approve(c *gin.Context) {
	event, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "approve event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Deny handles POST /api/admin/events/:id/deny
func (h *Handlers) Deny(c *gin.Context) {
	event, err := h.svc.Deny(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "deny event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// OrganizerEvents handles GET /api/organizer/events
func (h *Handlers) OrganizerEvents(c *gin.Context) {
	dash, err := h.svc.OrganizerDashboard(c.Request.Context(), callerFrom(c).ID)
	if err != nil {
		h.respondError(c, "organizer events", err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
