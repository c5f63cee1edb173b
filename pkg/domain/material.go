package domain

// Material is a piece of lendable equipment.
type Material struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	TotalStock int    `json:"total_stock"`
}

// MaterialInput is the create/update payload for a material.
type MaterialInput struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	TotalStock int    `json:"total_stock"`
}

// Alert threshold bounds accepted by materials/alert-threshold.
const (
	MinAlertThreshold = 1
	MaxAlertThreshold = 100
)

// AlertThreshold is the low-stock alert percentage.
type AlertThreshold struct {
	Threshold int `json:"threshold"`
}
