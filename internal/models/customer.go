package models

type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address,omitempty"`
	FacebookURL string `json:"facebook_url,omitempty"`
	Notes       string `json:"notes,omitempty"`
	TotalOrders int    `json:"total_orders"`
	TotalSpent  Money  `json:"total_spent"`
}
