package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RevieweeID primitive.ObjectID  `json:"reviewee_id" bson:"reviewee_id" validate:"required"`
	TripID     *primitive.ObjectID `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	Rating     float64             `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Content    string              `json:"content" bson:"content"`
	Reviewer   ReviewerSnapshot    `json:"reviewer" bson:"reviewer"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

type ReviewerSnapshot struct {
	ID     primitive.ObjectID `json:"id" bson:"id"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
}
