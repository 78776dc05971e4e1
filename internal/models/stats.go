package models

// WeeklyStats is a derived, read-only view over the trailing seven
// user-local days. Each original task counts exactly once no matter how
// many times it was carried forward.
type WeeklyStats struct {
	Done      int
	Cancelled int
	Open      int
	Total     int
}

// CompletionRate returns the done/total percentage, rounded down.
// An empty week reads as 0.
func (s WeeklyStats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return 100 * s.Done / s.Total
}
