package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"volunteer-api/db"
	"volunteer-api/models"
	"volunteer-api/notify"
)

// ErrInvalidHours is the validation failure for a bad hoursCommitted value.
var ErrInvalidHours = &ValidationError{Message: "hoursCommitted must be a non-negative number"}

// RSVP registers userID for an approved event. A repeat RSVP updates the
// committed hours in place (when supplied) and reports created=false.
func (s *Service) RSVP(ctx context.Context, userID, eventID string, hours *float64) (*models.Registration, bool, error) {
	if hours != nil && (math.IsNaN(*hours) || math.IsInf(*hours, 0) || *hours < 0) {
		return nil, false, ErrInvalidHours
	}

	if _, err := s.loadApproved(ctx, eventID); err != nil {
		return nil, false, err
	}

	existing, err := s.store.FindRegistration(ctx, userID, eventID)
	switch {
	case err == nil:
		return s.updateHours(ctx, existing, hours)
	case !errors.Is(err, db.ErrNotFound):
		return nil, false, err
	}

	reg := &models.Registration{
		User:           userID,
		Event:          eventID,
		HoursCommitted: hours,
	}
	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		switch {
		case errors.Is(err, db.ErrEventFull):
			// A concurrent first RSVP by the same user may have taken the
			// last slot.
			if existing, ferr := s.store.FindRegistration(ctx, userID, eventID); ferr == nil {
				return s.updateHours(ctx, existing, hours)
			}
			s.metrics.RSVP("full")
			return nil, false, ErrEventFull
		case errors.Is(err, db.ErrDuplicate):
			s.metrics.RSVP("duplicate")
			return nil, false, ErrAlreadyRegistered
		}
		return nil, false, err
	}

	s.metrics.RSVP("created")
	s.logger.Info("Registered volunteer", zap.String("user_id", userID), zap.String("event_id", eventID))
	s.publish(ctx, notify.RSVPCreated, registrationPayload(reg))
	return reg, true, nil
}

// updateHours overwrites the committed hours of an existing registration
// when hours is supplied. Without hours the registration is returned as is.
func (s *Service) updateHours(ctx context.Context, existing *models.Registration, hours *float64) (*models.Registration, bool, error) {
	if hours == nil {
		return existing, false, nil
	}

	existing.HoursCommitted = hours
	if err := s.store.UpdateRegistrationHours(ctx, existing); err != nil {
		return nil, false, err
	}
	s.metrics.RSVP("updated")
	s.publish(ctx, notify.RSVPUpdated, registrationPayload(existing))
	return existing, false, nil
}

// CancelRSVP deletes the registration of userID for eventID.
func (s *Service) CancelRSVP(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	reg, err := s.store.DeleteRegistration(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	s.metrics.RSVP("canceled")
	s.publish(ctx, notify.RSVPCanceled, registrationPayload(reg))
	return reg, nil
}

func registrationPayload(r *models.Registration) map[string]interface{} {
	return map[string]interface{}{
		"registration_id": r.ID,
		"user_id":         r.User,
		"event_id":        r.Event,
		"hours_committed": r.HoursCommitted,
	}
}
