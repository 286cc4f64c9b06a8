package service

import (
	"context"

	"volunteer-api/models"
)

// OrganizerDashboard lists the events owned by organizerID with per-event
// registration counts and summary metrics.
func (s *Service) OrganizerDashboard(ctx context.Context, organizerID string) (*models.OrganizerDashboard, error) {
	events, err := s.store.ListEventsByOwner(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts, err := s.store.CountRegistrationsByEvent(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dash := &models.OrganizerDashboard{
		Events: make([]models.EventStats, 0, len(events)),
	}
	for _, e := range events {
		count := counts[e.ID]
		stats := models.EventStats{Event: e, VolunteerCount: count}
		if e.HasCapacity() {
			total := *e.Capacity
			available := max(total-count, 0)
			stats.SlotsTotal = &total
			stats.SlotsAvailable = &available
		}
		dash.Events = append(dash.Events, stats)

		dash.Metrics.TotalVolunteers += count
		if e.Date.After(now) {
			dash.Metrics.UpcomingEvents++
		}
	}
	dash.Metrics.EventsCreated = len(events)
	return dash, nil
}
