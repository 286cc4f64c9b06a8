package service

import (
	"context"
	"errors"

	"volunteer-api/db"
	"volunteer-api/models"
	"volunteer-api/notify"
)

// ListPending returns pending events oldest submission first, each with its
// owner projection or a nil owner when the profile is unknown.
func (s *Service) ListPending(ctx context.Context) ([]models.PendingEvent, error) {
	events, err := s.store.ListEventsByStatus(ctx, models.StatusPending, db.SortBySubmitted)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if e.Owner != "" && !seen[e.Owner] {
			seen[e.Owner] = true
			ownerIDs = append(ownerIDs, e.Owner)
		}
	}
	owners, err := s.store.GetUsers(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingEvent, 0, len(events))
	for _, e := range events {
		p := models.PendingEvent{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Status:      e.Status,
			Date:        e.Date,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Address:     e.Address,
			Capacity:    e.Capacity,
			ImageURL:    e.ImageURL,
			SubmittedAt: e.CreatedAt,
		}
		if u, ok := owners[e.Owner]; ok {
			p.Owner = &models.OwnerSummary{
				ID:        u.ID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Email:     u.Email,
			}
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// Approve moves an event to approved.
func (s *Service) Approve(ctx context.Context, eventID string) (*models.Event, error) {
	return s.transition(ctx, eventID, models.StatusApproved)
}

// Deny moves an event to denied.
func (s *Service) Deny(ctx context.Context, eventID string) (*models.Event, error) {
	return s.transition(ctx, eventID, models.StatusDenied)
}

func (s *Service) transition(ctx context.Context, eventID string, next models.Status) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.store.UpdateEventStatus(ctx, eventID, next); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	updated, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.metrics.Moderation(string(next))
	eventType := notify.EventApproved
	if next == models.StatusDenied {
		eventType = notify.EventDenied
	}
	s.publish(ctx, eventType, map[string]string{"event_id": eventID, "owner_id": updated.Owner})
	return updated, nil
}
