package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"volunteer-api/metrics"
	"volunteer-api/models"
)

// RouterOptions configures the global middleware.
type RouterOptions struct {
	RateLimit      int
	RateWindow     time.Duration
	AllowedOrigins []string
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the peer address is the client.
	TrustedProxies []string
}

// NewRouter builds the REST surface wrapped in CORS handling.
func NewRouter(h *Handlers, m *metrics.Metrics, opts RouterOptions) (http.Handler, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	r.Use(Recovery(h.logger))
	r.Use(RequestLogger(h.logger, m))
	r.Use(RateLimit(opts.RateLimit, opts.RateWindow))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	{
		events := api.Group("/events")
		{
			volunteer := []gin.HandlerFunc{h.Authenticate(), RequireRole(models.RoleVolunteer)}

			events.GET("", h.ListEvents)
			events.GET("/saved", append(volunteer, h.ListSaved)...)
			events.GET("/:id", h.OptionalCaller(), h.GetEvent)
			events.POST("", h.Authenticate(), RequireRole(models.RoleOrganizer), h.CreateEvent)
			events.POST("/:id/rsvp", append(volunteer, h.RSVP)...)
			events.DELETE("/:id/rsvp", append(volunteer, h.CancelRSVP)...)
			events.POST("/:id/save", append(volunteer, h.Save)...)
			events.DELETE("/:id/save", append(volunteer, h.Unsave)...)
		}

		admin := api.Group("/admin", h.Authenticate(), RequireRole(models.RoleAdmin))
		{
			admin.GET("/events/pending", h.ListPending)
			admin.POST("/events/:id/approve", h.Approve)
			admin.POST("/events/:id/deny", h.Deny)
		}

		organizer := api.Group("/organizer", h.Authenticate(), RequireRole(models.RoleOrganizer))
		{
			organizer.GET("/events", h.OrganizerEvents)
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r), nil
}
