package service

import "volunteer-api/models"

// Viewer is the identity looking at an event. A nil Viewer is anonymous.
type Viewer struct {
	ID   string
	Role models.Role
}

// CanView reports whether v may see e. Approved events are public; other
// events are visible to their owner and to admins only.
func CanView(e *models.Event, v *Viewer) bool {
	if e.Status == models.StatusApproved {
		return true
	}
	if v == nil {
		return false
	}
	if v.Role == models.RoleAdmin {
		return true
	}
	return v.ID != "" && v.ID == e.Owner
}
