package entity

// Standing posición derivada (no persistida) de un usuario en un ranking.
type Standing struct {
	Rank     int
	UserID   string
	FullName string
	Email    string
	Balance  int64
}
