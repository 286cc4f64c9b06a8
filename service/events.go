package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"volunteer-api/db"
	"volunteer-api/models"
	"volunteer-api/notify"
)

// CreateEventInput is an organizer's event submission.
type CreateEventInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	Date        string `validate:"required"`
	StartTime   string
	EndTime     string
	Address     string
	Capacity    *int `validate:"omitempty,min=0"`
	ImageURL    string
}

func (in *CreateEventInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("date must be an ISO 8601 date")
}

// CreateEvent stores a new pending event owned by owner.
func (s *Service) CreateEvent(ctx context.Context, owner models.User, in CreateEventInput) (*models.Event, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Capacity" {
					return nil, invalid("capacity must be a non-negative integer")
				}
			}
			return nil, invalid("Missing required fields")
		}
		return nil, err
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertUser(ctx, owner); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Date:        date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Address:     in.Address,
		Capacity:    in.Capacity,
		ImageURL:    in.ImageURL,
		Status:      models.StatusPending,
		Owner:       owner.ID,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, notify.EventSubmitted, map[string]string{"event_id": event.ID, "owner_id": owner.ID})
	return event, nil
}

// ListApproved returns approved events ordered by date.
func (s *Service) ListApproved(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEventsByStatus(ctx, models.StatusApproved, db.SortByDate)
}

// GetEvent returns the event when viewer may see it. Hidden and absent
// events both yield ErrEventNotFound.
func (s *Service) GetEvent(ctx context.Context, id string, viewer *Viewer) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !CanView(event, viewer) {
		return nil, ErrEventNotFound
	}
	return event, nil
}
