package domain

// Venue statuses used by the fixture dataset.
const (
	VenueOpen        = "open"
	VenueMaintenance = "maintenance"
)

// Venue is a bookable space.
type Venue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// VenueInput is the create/update payload for a venue.
type VenueInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status,omitempty"`
}

// Booking is an application occupying a venue, as returned by venues/{id}/bookings.
type Booking struct {
	ApplicationID int64  `json:"application_id"`
	ActivityName  string `json:"activity_name"`
	Applicant     string `json:"applicant_username"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}
