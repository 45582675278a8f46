package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusPublished TripStatus = "published"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

type Trip struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID         primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	Origin           string             `json:"origin" bson:"origin" validate:"required"`
	Destination      string             `json:"destination" bson:"destination" validate:"required"`
	OriginPoint      *GeoPoint          `json:"origin_point,omitempty" bson:"origin_point,omitempty"`
	DestinationPoint *GeoPoint          `json:"destination_point,omitempty" bson:"destination_point,omitempty"`
	Date             time.Time          `json:"date" bson:"date" validate:"required"`
	DepartureTime    string             `json:"departure_time" bson:"departure_time" validate:"required"` // zero-padded HH:MM
	ArrivalTime      string             `json:"arrival_time" bson:"arrival_time"`
	Duration         string             `json:"duration" bson:"duration"`
	Price            float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Currency         string             `json:"currency" bson:"currency" default:"ARS"`
	AvailableSeats   int                `json:"available_seats" bson:"available_seats" validate:"min=0"`
	Vehicle          VehicleInfo        `json:"vehicle" bson:"vehicle"`
	MeetingPoint     string             `json:"meeting_point" bson:"meeting_point"`
	DropOffPoint     string             `json:"drop_off_point" bson:"drop_off_point"`
	Stops            []Stop             `json:"stops" bson:"stops"`
	Features         []string           `json:"features" bson:"features"`
	Notes            string             `json:"notes" bson:"notes"`
	Status           TripStatus         `json:"status" bson:"status" default:"published"`
	Driver           *DriverSnapshot    `json:"driver,omitempty" bson:"driver,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

type Stop struct {
	Location string `json:"location" bson:"location" validate:"required"`
	Time     string `json:"time" bson:"time" validate:"required"` // HH:MM
}

type VehicleInfo struct {
	Brand  string `json:"brand" bson:"brand"`
	Model  string `json:"model" bson:"model"`
	Year   int    `json:"year" bson:"year"`
	Color  string `json:"color" bson:"color"`
	Plate  string `json:"plate" bson:"plate"`
	Active bool   `json:"active" bson:"active" default:"true"`
}

// DriverSnapshot is the driver display data denormalized onto a trip when
// it is read. It is never the authoritative copy; the users collection is.
type DriverSnapshot struct {
	ID          primitive.ObjectID `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name"`
	Avatar      string             `json:"avatar" bson:"avatar"`
	Rating      float64            `json:"rating" bson:"rating"`
	ReviewCount int                `json:"review_count" bson:"review_count"`
	MemberSince string             `json:"member_since" bson:"member_since"`
}

// CityCount is a popularity aggregation row: how many published trips
// currently start from a city.
type CityCount struct {
	City  string `json:"city" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// HasDriverData reports whether driver display data is present. Rating
// filters and rating-based sorts are silently skipped when it is not.
func (t *Trip) HasDriverData() bool {
	return t.Driver != nil
}

func (t *Trip) DriverRating() float64 {
	if t.Driver == nil {
		return 0
	}
	return t.Driver.Rating
}

// Normalize fills zero-value optional fields once at the store-read
// boundary so downstream code never branches on field presence.
func (t *Trip) Normalize() {
	if t.Currency == "" {
		t.Currency = "ARS"
	}
	if t.Status == "" {
		t.Status = TripStatusPublished
	}
	if t.Stops == nil {
		t.Stops = []Stop{}
	}
	if t.Features == nil {
		t.Features = []string{}
	}
}
