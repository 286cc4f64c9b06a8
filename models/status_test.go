package models

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDenied, true},
		{StatusPending, StatusPending, true},
		{StatusApproved, StatusDenied, true},
		{StatusDenied, StatusApproved, true},
		{StatusApproved, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusDenied, StatusPending, false},
		{Status("archived"), StatusApproved, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("approved"); err != nil || s != StatusApproved {
		t.Fatalf("expected approved, got %q (%v)", s, err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleVolunteer, RoleOrganizer, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Error("expected guest to be invalid")
	}
}
