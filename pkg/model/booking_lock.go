package model

import "time"

// BookingLock is an advisory lock document. The _id is the spot/date pair,
// so the unique index serializes all booking creation for one spot and day.
// Crashed holders are reaped by the TTL index on expires_at.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func LockID(spotID, date string) string {
	return spotID + "_" + date
}
