package session

import "context"

// Store tracks per-user contact history across process restarts.
type Store interface {
	// Touch records one inbound message for the user. It returns true iff
	// this is the first message ever observed for the key. The underlying
	// read-modify-write is atomic per key.
	Touch(ctx context.Context, userID string) (first bool, err error)

	// MessageCount returns the number of messages observed for the user,
	// zero for unknown users.
	MessageCount(ctx context.Context, userID string) (int, error)

	// Close releases the underlying storage.
	Close() error
}
