package models

import "time"

type FocusPhase string

const (
	PhaseIdle  FocusPhase = "IDLE"
	PhaseWork  FocusPhase = "WORK"
	PhaseBreak FocusPhase = "BREAK"
)

// FocusSession is a Pomodoro session. At most one non-IDLE session exists
// per user; starting a new one replaces the old one outright.
type FocusSession struct {
	ID     string
	UserID int64
	Phase  FocusPhase
	// PhaseEnd is the absolute instant at which the current phase expires.
	PhaseEnd time.Time
	// Cycles counts completed work phases in this session.
	Cycles    int
	StartedAt time.Time
}
