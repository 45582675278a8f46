package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthUID       string             `json:"-" bson:"auth_uid" validate:"required"` // identity provider uid
	Name          string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email         string             `json:"email" bson:"email" validate:"required,email"`
	Phone         string             `json:"phone" bson:"phone"`
	Bio           string             `json:"bio" bson:"bio"`
	Avatar        string             `json:"avatar" bson:"avatar"`
	Rating        float64            `json:"rating" bson:"rating" default:"0"`
	ReviewCount   int                `json:"review_count" bson:"review_count" default:"0"`
	MemberSince   string             `json:"member_since" bson:"member_since"`
	Preferences   []string           `json:"preferences" bson:"preferences"`
	Badges        []string           `json:"badges" bson:"badges"`
	Vehicle       *VehicleInfo       `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	Status        UserStatus         `json:"status" bson:"status" default:"active"`
	IsVerified    bool               `json:"is_verified" bson:"is_verified" default:"false"`
	EmailVerified bool               `json:"email_verified" bson:"email_verified" default:"false"`
	PhoneVerified bool               `json:"phone_verified" bson:"phone_verified" default:"false"`
	LastLoginAt   *time.Time         `json:"last_login_at" bson:"last_login_at"`
	LastLogoutAt  *time.Time         `json:"last_logout_at" bson:"last_logout_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) DriverSnapshot() *DriverSnapshot {
	return &DriverSnapshot{
		ID:          u.ID,
		Name:        u.Name,
		Avatar:      u.Avatar,
		Rating:      u.Rating,
		ReviewCount: u.ReviewCount,
		MemberSince: u.MemberSince,
	}
}

func (u *User) Normalize() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.Preferences == nil {
		u.Preferences = []string{}
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
}

// UserStats is the aggregate profile card computed from completed trips.
type UserStats struct {
	TripsCompleted        int64           `json:"trips_completed"`
	PassengersTransported int64           `json:"passengers_transported"`
	KilometersTotal       float64         `json:"kilometers_total"`
	AverageRating         float64         `json:"average_rating"`
	FrequentRoutes        []FrequentRoute `json:"frequent_routes"`
}

type FrequentRoute struct {
	Origin      string `json:"origin" bson:"origin"`
	Destination string `json:"destination" bson:"destination"`
	Count       int64  `json:"count" bson:"count"`
}
