package models

import "fmt"

// Status is the moderation state of an event.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// transitions lists the moves an administrator may make. Returning an event
// to pending is not allowed; approved and denied may be swapped.
var transitions = map[Status][]Status{
	StatusPending:  {StatusPending, StatusApproved, StatusDenied},
	StatusApproved: {StatusApproved, StatusDenied},
	StatusDenied:   {StatusDenied, StatusApproved},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus converts a stored value into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown event status %q", v)
	}
	return s, nil
}
