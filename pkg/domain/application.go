package domain

import "strings"

// Application statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// RequestedMaterial is one line of equipment attached to an application.
type RequestedMaterial struct {
	MaterialID int64  `json:"material_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Application is a venue booking request.
type Application struct {
	ID                 int64               `json:"id"`
	ActivityName       string              `json:"activity_name"`
	ApplicantUsername  string              `json:"applicant_username"`
	VenueID            int64               `json:"venue_id"`
	VenueName          string              `json:"venue_name,omitempty"`
	StartTime          string              `json:"start_time"`
	EndTime            string              `json:"end_time"`
	Status             string              `json:"status"`
	RequestedMaterials []RequestedMaterial `json:"requested_materials,omitempty"`
	RejectReason       string              `json:"reject_reason,omitempty"`
}

// Pending reports whether the application still awaits a decision.
func (a Application) Pending() bool {
	return strings.EqualFold(a.Status, StatusPending)
}

// ApplicationInput is the applications POST payload.
// StartTime and EndTime are canonical +08:00 timestamps.
type ApplicationInput struct {
	ActivityName       string              `json:"activity_name"`
	VenueID            int64               `json:"venue_id"`
	StartTime          string              `json:"start_time"`
	EndTime            string              `json:"end_time"`
	RequestedMaterials []RequestedMaterial `json:"requested_materials,omitempty"`
}

// RejectInput is the applications/{id}/reject payload.
type RejectInput struct {
	Reason string `json:"reason"`
}
