package service

import (
	"context"
	"errors"

	"volunteer-api/db"
	"volunteer-api/models"
	"volunteer-api/notify"
)

// Save bookmarks an approved event. Saving twice returns the existing
// bookmark with created=false.
func (s *Service) Save(ctx context.Context, userID, eventID string) (*models.SavedEvent, bool, error) {
	if _, err := s.loadApproved(ctx, eventID); err != nil {
		return nil, false, err
	}

	existing, err := s.store.FindSavedEvent(ctx, userID, eventID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, err
	}

	saved := &models.SavedEvent{User: userID, Event: eventID}
	if err := s.store.CreateSavedEvent(ctx, saved); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, false, ErrAlreadySaved
		}
		return nil, false, err
	}

	s.publish(ctx, notify.EventSaved, map[string]string{"user_id": userID, "event_id": eventID})
	return saved, true, nil
}

// Unsave removes the bookmark of userID for eventID.
func (s *Service) Unsave(ctx context.Context, userID, eventID string) (*models.SavedEvent, error) {
	saved, err := s.store.DeleteSavedEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSavedEventNotFound
		}
		return nil, err
	}

	s.publish(ctx, notify.EventUnsaved, map[string]string{"user_id": userID, "event_id": eventID})
	return saved, nil
}

// ListSaved returns the approved events bookmarked by userID.
func (s *Service) ListSaved(ctx context.Context, userID string) ([]models.Event, error) {
	return s.store.ListSavedEvents(ctx, userID)
}
