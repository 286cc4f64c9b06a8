package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"volunteer-api/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc"
	db, err := NewDB(dsn)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(context.Background()); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func countRegistrations(t *testing.T, db *DB, eventID string) int {
	t.Helper()

	var n int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count registrations: %v", err)
	}
	return n
}

func newTestEvent(t *testing.T, db *DB, status models.Status, capacity *int, date time.Time) *models.Event {
	t.Helper()

	e := &models.Event{
		Title:       "Park cleanup",
		Description: "Bring gloves",
		Category:    "Environment",
		Date:        date,
		Capacity:    capacity,
		Status:      status,
		Owner:       "organizer-1",
	}
	if err := db.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return e
}

func intPtr(v int) *int { return &v }

func TestCreateAndGetEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	date := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	e := newTestEvent(t, db, models.StatusPending, intPtr(3), date)

	got, err := db.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Title != e.Title || got.Status != models.StatusPending || got.Owner != "organizer-1" {
		t.Errorf("Unexpected event: %+v", got)
	}
	if got.Capacity == nil || *got.Capacity != 3 {
		t.Errorf("Expected capacity 3, got %v", got.Capacity)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Expected date %v, got %v", date, got.Date)
	}

	if _, err := db.GetEvent(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListEventsByStatusOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	late := newTestEvent(t, db, models.StatusApproved, nil, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	early := newTestEvent(t, db, models.StatusApproved, nil, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	newTestEvent(t, db, models.StatusPending, nil, time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC))
	newTestEvent(t, db, models.StatusDenied, nil, time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC))

	events, err := db.ListEventsByStatus(ctx, models.StatusApproved, SortByDate)
	if err != nil {
		t.Fatalf("ListEventsByStatus failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 approved events, got %d", len(events))
	}
	if events[0].ID != early.ID || events[1].ID != late.ID {
		t.Errorf("Expected date ascending order, got %s then %s", events[0].ID, events[1].ID)
	}
}

func TestUpdateEventStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	e := newTestEvent(t, db, models.StatusPending, nil, time.Now())
	if err := db.UpdateEventStatus(ctx, e.ID, models.StatusApproved); err != nil {
		t.Fatalf("UpdateEventStatus failed: %v", err)
	}
	got, err := db.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("Expected approved, got %s", got.Status)
	}

	if err := db.UpdateEventStatus(ctx, "missing", models.StatusDenied); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRegistrationUniquePerUserAndEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	e := newTestEvent(t, db, models.StatusApproved, nil, time.Now())

	first := &models.Registration{User: "volunteer-1", Event: e.ID}
	if err := db.CreateRegistration(ctx, first); err != nil {
		t.Fatalf("CreateRegistration failed: %v", err)
	}

	dup := &models.Registration{User: "volunteer-1", Event: e.ID}
	if err := db.CreateRegistration(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	if n := countRegistrations(t, db, e.ID); n != 1 {
		t.Errorf("Expected 1 registration, got %d", n)
	}
}

func TestCreateRegistrationRespectsCapacity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	e := newTestEvent(t, db, models.StatusApproved, intPtr(1), time.Now())

	if err := db.CreateRegistration(ctx, &models.Registration{User: "a", Event: e.ID}); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if err := db.CreateRegistration(ctx, &models.Registration{User: "b", Event: e.ID}); !errors.Is(err, ErrEventFull) {
		t.Errorf("Expected ErrEventFull, got %v", err)
	}

	zero := newTestEvent(t, db, models.StatusApproved, intPtr(0), time.Now())
	if err := db.CreateRegistration(ctx, &models.Registration{User: "a", Event: zero.ID}); !errors.Is(err, ErrEventFull) {
		t.Errorf("Expected ErrEventFull for zero capacity, got %v", err)
	}
}

func TestUpdateAndDeleteRegistration(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	e := newTestEvent(t, db, models.StatusApproved, nil, time.Now())
	reg := &models.Registration{User: "volunteer-1", Event: e.ID}
	if err := db.CreateRegistration(ctx, reg); err != nil {
		t.Fatalf("CreateRegistration failed: %v", err)
	}

	hours := 4.5
	reg.HoursCommitted = &hours
	if err := db.UpdateRegistrationHours(ctx, reg); err != nil {
		t.Fatalf("UpdateRegistrationHours failed: %v", err)
	}

	found, err := db.FindRegistration(ctx, "volunteer-1", e.ID)
	if err != nil {
		t.Fatalf("FindRegistration failed: %v", err)
	}
	if found.HoursCommitted == nil || *found.HoursCommitted != 4.5 {
		t.Errorf("Expected 4.5 hours, got %v", found.HoursCommitted)
	}

	deleted, err := db.DeleteRegistration(ctx, "volunteer-1", e.ID)
	if err != nil {
		t.Fatalf("DeleteRegistration failed: %v", err)
	}
	if deleted.ID != reg.ID {
		t.Errorf("Expected deleted id %s, got %s", reg.ID, deleted.ID)
	}

	if _, err := db.DeleteRegistration(ctx, "volunteer-1", e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCountRegistrationsByEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := newTestEvent(t, db, models.StatusApproved, nil, time.Now())
	b := newTestEvent(t, db, models.StatusApproved, nil, time.Now())
	c := newTestEvent(t, db, models.StatusApproved, nil, time.Now())

	for _, u := range []string{"u1", "u2"} {
		if err := db.CreateRegistration(ctx, &models.Registration{User: u, Event: a.ID}); err != nil {
			t.Fatalf("CreateRegistration failed: %v", err)
		}
	}
	for _, u := range []string{"u1", "u2", "u3", "u4", "u5"} {
		if err := db.CreateRegistration(ctx, &models.Registration{User: u, Event: c.ID}); err != nil {
			t.Fatalf("CreateRegistration failed: %v", err)
		}
	}

	counts, err := db.CountRegistrationsByEvent(ctx, []string{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("CountRegistrationsByEvent failed: %v", err)
	}
	if counts[a.ID] != 2 || counts[b.ID] != 0 || counts[c.ID] != 5 {
		t.Errorf("Unexpected counts: %v", counts)
	}
	if _, ok := counts[b.ID]; ok {
		t.Errorf("Expected no entry for event without registrations")
	}
}

func TestSavedEvents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	approved := newTestEvent(t, db, models.StatusApproved, nil, time.Now())
	pending := newTestEvent(t, db, models.StatusPending, nil, time.Now())

	for _, id := range []string{approved.ID, pending.ID} {
		if err := db.CreateSavedEvent(ctx, &models.SavedEvent{User: "v", Event: id}); err != nil {
			t.Fatalf("CreateSavedEvent failed: %v", err)
		}
	}
	if err := db.CreateSavedEvent(ctx, &models.SavedEvent{User: "v", Event: approved.ID}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	events, err := db.ListSavedEvents(ctx, "v")
	if err != nil {
		t.Fatalf("ListSavedEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != approved.ID {
		t.Errorf("Expected only the approved saved event, got %+v", events)
	}

	if _, err := db.DeleteSavedEvent(ctx, "v", approved.ID); err != nil {
		t.Fatalf("DeleteSavedEvent failed: %v", err)
	}
	if _, err := db.FindSavedEvent(ctx, "v", approved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpsertUserKeepsKnownFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertUser(ctx, models.User{ID: "o1", Role: models.RoleOrganizer, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := db.UpsertUser(ctx, models.User{ID: "o1", Role: models.RoleOrganizer, Email: "ada@example.org"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	users, err := db.GetUsers(ctx, []string{"o1", "missing"})
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	u, ok := users["o1"]
	if !ok {
		t.Fatal("Expected user o1")
	}
	if u.FirstName != "Ada" || u.Email != "ada@example.org" {
		t.Errorf("Unexpected user: %+v", u)
	}
	if _, ok := users["missing"]; ok {
		t.Error("Expected no entry for unknown user")
	}
}
