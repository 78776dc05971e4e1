// Package gateway defines the outbound messaging contract. The core hands
// structured messages to a Sender; rendering and transport live behind it.
package gateway

import "context"

// Button is one inline action attached to a message.
type Button struct {
	Label    string
	Callback string
}

// Message is an outbound delivery request for a single user.
type Message struct {
	UserID  int64
	Text    string
	Buttons []Button
}

// Sender delivers a message to the user. Implementations may block on
// network I/O; callers must not hold per-user scheduling locks across Send.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
