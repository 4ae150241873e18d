// ABOUTME: ID and timestamp helpers shared by all entities
// ABOUTME: IDs are UUIDv4 strings, timestamps are milliseconds since epoch
package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a globally unique identifier for any entity kind.
func NewID() string {
	return uuid.New().String()
}

// NowMillis returns the current wall-clock time in milliseconds since epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
