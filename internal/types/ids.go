package types

import (
	"time"

	"github.com/google/uuid"
)

// ItemID identifies one ciphertext item in a fallible bulk decrypt call,
// so per-item outcomes can be re-correlated with their inputs.
type ItemID string

// RequestID tags one engine round trip for log correlation.
type RequestID string

// NewItemID generates a UUIDv7 item identifier.
// Time-ordered IDs keep bulk items sortable by submission order.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewItemID() ItemID {
	return ItemID(uuid.Must(uuid.NewV7()).String())
}

// NewRequestID generates a UUIDv7 request identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRequestID() RequestID {
	return RequestID(uuid.Must(uuid.NewV7()).String())
}

// ParseItemID validates and converts a string to ItemID.
// Rejects malformed UUIDs so invalid correlation keys never enter a batch.
func ParseItemID(s string) (ItemID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ItemID(s), nil
}

// RequestIDTime extracts the timestamp embedded in a UUIDv7 request ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func RequestIDTime(id RequestID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
