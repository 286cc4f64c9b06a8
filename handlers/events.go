package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"volunteer-api/service"
)

// Request DTOs
type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Address     string `json:"address"`
	Capacity    *int   `json:"capacity"`
	ImageURL    string `json:"imageUrl"`
}

type rsvpRequest struct {
	HoursCommitted json.RawMessage `json:"hoursCommitted"`
}

// ListEvents handles GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	events, err := h.svc.ListApproved(c.Request.Context())
	if err != nil {
		h.respondError(c, "list events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListSaved handles GET /api/events/saved
func (h *Handlers) ListSaved(c *gin.Context) {
	events, err := h.svc.ListSaved(c.Request.Context(), callerFrom(c).ID)
	if err != nil {
		h.respondError(c, "list saved events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent handles GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		h.respondError(c, "get event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// CreateEvent handles POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	event, err := h.svc.CreateEvent(c.Request.Context(), callerFrom(c).Profile(), service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Address:     req.Address,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.respondError(c, "create event", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// RSVP handles POST /api/events/:id/rsvp
func (h *Handlers) RSVP(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req rsvpRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	hours, err := parseHours(req.HoursCommitted)
	if err != nil {
		h.respondError(c, "rsvp", err)
		return
	}

	reg, created, err := h.svc.RSVP(c.Request.Context(), callerFrom(c).ID, c.Param("id"), hours)
	if err != nil {
		h.respondError(c, "rsvp", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"registration": reg})
}

// CancelRSVP handles DELETE /api/events/:id/rsvp
func (h *Handlers) CancelRSVP(c *gin.Context) {
	reg, err := h.svc.CancelRSVP(c.Request.Context(), callerFrom(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, "cancel rsvp", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "RSVP canceled", "registration": reg})
}

// Save handles POST /api/events/:id/save
func (h *Handlers) Save(c *gin.Context) {
	saved, created, err := h.svc.Save(c.Request.Context(), callerFrom(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, "save event", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"savedEvent": saved})
}

// Unsave handles DELETE /api/events/:id/save
func (h *Handlers) Unsave(c *gin.Context) {
	saved, err := h.svc.Unsave(c.Request.Context(), callerFrom(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, "unsave event", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event removed from saved list", "savedEvent": saved})
}

// parseHours accepts a JSON number or a numeric string. An absent or null
// value means no hours were supplied.
func parseHours(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, service.ErrInvalidHours
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, service.ErrInvalidHours
	}
	return &n, nil
}
