package models

// BookingStats is the dashboard aggregate, recomputed on every request.
type BookingStats struct {
	TotalBookings      int     `json:"totalBookings"`
	Pending            int     `json:"pending"`
	Confirmed          int     `json:"confirmed"`
	InProgress         int     `json:"inProgress"`
	Completed          int     `json:"completed"`
	Cancelled          int     `json:"cancelled"`
	RecentBookings     int     `json:"recentBookings"`
	MonthlyBookings    int     `json:"monthlyBookings"`
	CompletedWithPrice int     `json:"completedWithPrice"`
	EstimatedRevenue   float64 `json:"estimatedRevenue"`
	CompletedRevenue   float64 `json:"completedRevenue"`
}

// Pagination describes a page of an admin listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
