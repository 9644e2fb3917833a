package model

import (
	"crypto/rand"
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ActiveStatuses are the booking states that occupy a spot's time. Only
// these participate in conflict detection.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	Code      string    `json:"code" bson:"code" validate:"omitempty"`
	SpotID    string    `json:"spot_id" bson:"spot_id" validate:"required,uuid4"`
	RenterID  string    `json:"renter_id" bson:"renter_id" validate:"required,uuid4"`
	VehicleID string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,uuid4"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Amount    float64   `json:"amount" bson:"amount" validate:"gte=0"`
	QRCode    string    `json:"qr_code,omitempty" bson:"qr_code,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingCreate is the renter-facing creation payload.
type BookingCreate struct {
	SpotID    string `json:"spot_id" validate:"required,uuid4"`
	VehicleID string `json:"vehicle_id" validate:"required,uuid4"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingCode generates a short human-readable booking code. Uniqueness
// is enforced by the store's unique index, not by the generator.
func NewBookingCode() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return "PSB-" + string(b)
}
