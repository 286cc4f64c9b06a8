package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"volunteer-api/db"
	"volunteer-api/metrics"
	"volunteer-api/models"
	"volunteer-api/notify"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrSavedEventNotFound   = errors.New("saved event not found")
	ErrEventFull            = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrAlreadySaved         = errors.New("event already saved")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// Store is the persistence the service needs. *db.DB satisfies it.
type Store interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEventsByStatus(ctx context.Context, status models.Status, sort db.EventSort) ([]models.Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]models.Event, error)
	UpdateEventStatus(ctx context.Context, id string, status models.Status) error

	FindRegistration(ctx context.Context, userID, eventID string) (*models.Registration, error)
	CreateRegistration(ctx context.Context, r *models.Registration) error
	UpdateRegistrationHours(ctx context.Context, r *models.Registration) error
	DeleteRegistration(ctx context.Context, userID, eventID string) (*models.Registration, error)
	CountRegistrationsByEvent(ctx context.Context, eventIDs []string) (map[string]int, error)

	FindSavedEvent(ctx context.Context, userID, eventID string) (*models.SavedEvent, error)
	CreateSavedEvent(ctx context.Context, s *models.SavedEvent) error
	DeleteSavedEvent(ctx context.Context, userID, eventID string) (*models.SavedEvent, error)
	ListSavedEvents(ctx context.Context, userID string) ([]models.Event, error)

	UpsertUser(ctx context.Context, u models.User) error
	GetUsers(ctx context.Context, ids []string) (map[string]models.User, error)
}

// Service implements the event lifecycle, RSVP and bookmark use cases.
type Service struct {
	store     Store
	publisher notify.Publisher
	metrics   *metrics.Metrics
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func New(store Store, publisher notify.Publisher, m *metrics.Metrics, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   m,
		validate:  validator.New(),
		logger:    logger.Named("service"),
		now:       time.Now,
	}
}

// publish emits a domain event after the change is stored. Failures are
// logged and never fail the request.
func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn("Failed to publish domain event", zap.String("type", eventType), zap.Error(err))
	}
}

// loadApproved returns the event only when it exists and is approved.
func (s *Service) loadApproved(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Status != models.StatusApproved {
		return nil, ErrEventNotFound
	}
	return event, nil
}
