package model

import (
	"time"

	"parkspot/pkg/schedule"
)

const (
	CoverageCovered   = "covered"
	CoverageUncovered = "uncovered"

	SizeCompact  = "compact"
	SizeStandard = "standard"
	SizeLarge    = "large"
)

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type" validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
}

type Spot struct {
	ID            string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	OwnerID       string          `json:"owner_id" bson:"owner_id" validate:"required,uuid4"`
	Name          string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address       string          `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Location      GeoPoint        `json:"location" bson:"location" validate:"required"`
	Window        schedule.Window `json:"window" bson:"window" validate:"required"`
	AvailableDays schedule.Days   `json:"available_days" bson:"available_days"`
	IsCovered     string          `json:"is_covered" bson:"is_covered" validate:"required,oneof=covered uncovered"`
	Size          string          `json:"size" bson:"size" validate:"required,oneof=compact standard large"`
	HourlyRate    float64         `json:"hourly_rate" bson:"hourly_rate" validate:"gte=0"`
	Description   string          `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Images        []string        `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,max=5"`
	IsAvailable   bool            `json:"is_available" bson:"is_available"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SpotCreate is the owner-facing creation payload. The daily window is
// derived from the selected named slots, never supplied directly.
type SpotCreate struct {
	Name        string        `json:"name" validate:"required,min=2,max=100"`
	Address     string        `json:"address" validate:"required,min=2,max=200"`
	Location    GeoPoint      `json:"location" validate:"required"`
	Slots       []string      `json:"slots" validate:"required,min=1,max=4,dive,oneof=morning afternoon evening night"`
	Days        schedule.Days `json:"available_days"`
	IsCovered   string        `json:"is_covered" validate:"required,oneof=covered uncovered"`
	Size        string        `json:"size" validate:"required,oneof=compact standard large"`
	HourlyRate  float64       `json:"hourly_rate" validate:"gte=0"`
	Description string        `json:"description,omitempty" validate:"omitempty,max=1000"`
	Images      []string      `json:"images,omitempty" validate:"omitempty,max=5"`
}

type SpotUpdate struct {
	Name        string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address     string         `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Location    *GeoPoint      `json:"location,omitempty" validate:"omitempty"`
	Days        *schedule.Days `json:"available_days,omitempty" validate:"omitempty"`
	IsCovered   string         `json:"is_covered,omitempty" validate:"omitempty,oneof=covered uncovered"`
	Size        string         `json:"size,omitempty" validate:"omitempty,oneof=compact standard large"`
	HourlyRate  *float64       `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Description string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Images      *[]string      `json:"images,omitempty" validate:"omitempty,max=5"`
}

// NearbyQuery is a discovery request around a point.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Date      string // YYYY-MM-DD, empty means today
	StartTime string // HH:MM, empty means 00:00
	EndTime   string // HH:MM, empty means 24:00
	MaxPrice  *float64
}
