// Package models defines data models persisted in the database.
package models

import "time"

// User is a bot user. Users are created on the first interaction and are
// never hard-deleted, only deactivated.
type User struct {
	// ID is the messaging-platform user identifier (chat id for
	// one-on-one chats).
	ID int64
	// Timezone is an IANA name or a fixed offset ("UTC-8").
	Timezone string
	// DefaultTZ is true until the user sets a timezone explicitly.
	DefaultTZ bool
	// Active users participate in daily trigger scheduling.
	Active    bool
	CreatedAt time.Time
}
