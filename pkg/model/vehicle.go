package model

import "time"

type Vehicle struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,uuid4"`
	PlateNumber string    `json:"plate_number" bson:"plate_number" validate:"required,min=2,max=20"`
	Kind        string    `json:"kind" bson:"kind" validate:"required,min=2,max=30"`
	Brand       string    `json:"brand,omitempty" bson:"brand,omitempty" validate:"omitempty,max=50"`
	Model       string    `json:"model,omitempty" bson:"model,omitempty" validate:"omitempty,max=50"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,max=30"`
	IsElectric  bool      `json:"is_electric" bson:"is_electric"`
	IsDefault   bool      `json:"is_default" bson:"is_default"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
