package dto

// StandingResponse fila del ranking.
type StandingResponse struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Balance  int64  `json:"balance"`
}

// RankingResponse ranking global o de equipo.
type RankingResponse struct {
	TeamID     string             `json:"team_id,omitempty"`
	Items      []StandingResponse `json:"items"`
	TotalCoins int64              `json:"total_coins"`
}
