package domain

// DashboardStats are the headline counters on the dashboard.
type DashboardStats struct {
	TotalApplications    int `json:"total_applications"`
	PendingApplications  int `json:"pending_applications"`
	ApprovedApplications int `json:"approved_applications"`
	RejectedApplications int `json:"rejected_applications"`
	TotalVenues          int `json:"total_venues"`
	TotalMaterials       int `json:"total_materials"`
	TotalUsers           int `json:"total_users"`
}

// TrendPoint is one day of application volume.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
