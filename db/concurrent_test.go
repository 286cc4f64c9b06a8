package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"volunteer-api/models"
)

func TestCapacityUnderConcurrentRSVPs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// 1. Create an event with exactly 5 slots
	totalCapacity := 5
	event := newTestEvent(t, db, models.StatusApproved, intPtr(totalCapacity), time.Now())

	// 2. Launch 100 goroutines to fight for the 5 slots
	numRequests := 100
	var successCount int32
	var fullCount int32
	var errorCount int32

	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func(requestID int) {
			defer wg.Done()

			reg := &models.Registration{
				User:  fmt.Sprintf("volunteer-%d", requestID),
				Event: event.ID,
			}
			err := db.CreateRegistration(ctx, reg)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case errors.Is(err, ErrEventFull):
				atomic.AddInt32(&fullCount, 1)
			default:
				t.Logf("Unexpected error for request %d: %v", requestID, err)
				atomic.AddInt32(&errorCount, 1)
			}
		}(i)
	}

	wg.Wait()

	t.Logf("Results -> Successes: %d | Full: %d | Errors: %d", successCount, fullCount, errorCount)

	// 3. Verify exactly 5 succeeded and the rest saw a full event
	if successCount != int32(totalCapacity) {
		t.Errorf("Expected exactly %d successes, but got %d", totalCapacity, successCount)
	}
	if fullCount != int32(numRequests-totalCapacity) {
		t.Errorf("Expected exactly %d full errors, but got %d", numRequests-totalCapacity, fullCount)
	}
	if errorCount != 0 {
		t.Errorf("Expected 0 unexpected errors, but got %d", errorCount)
	}

	// 4. Double check the stored rows directly
	if n := countRegistrations(t, db, event.ID); n != totalCapacity {
		t.Errorf("Expected exactly %d registration rows, but got %d", totalCapacity, n)
	}
}

func TestConcurrentSavesKeepOneRecord(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	event := newTestEvent(t, db, models.StatusApproved, nil, time.Now())

	numRequests := 20
	var created int32
	var dup int32

	var wg sync.WaitGroup
	wg.Add(numRequests)
	for i := 0; i < numRequests; i++ {
		go func() {
			defer wg.Done()
			err := db.CreateSavedEvent(ctx, &models.SavedEvent{User: "volunteer-1", Event: event.ID})
			if err == nil {
				atomic.AddInt32(&created, 1)
			} else if errors.Is(err, ErrDuplicate) {
				atomic.AddInt32(&dup, 1)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("Expected exactly 1 saved record, got %d", created)
	}
	if dup != int32(numRequests-1) {
		t.Errorf("Expected %d duplicate errors, got %d", numRequests-1, dup)
	}
}
