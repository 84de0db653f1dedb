package dto

// StatsResponse resumen del panel de administración.
type StatsResponse struct {
	TotalUsers      int   `json:"total_users"`
	TotalCoins      int64 `json:"total_coins"`
	TotalCategories int   `json:"total_categories"`
}
