package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Call statuses
const (
	CallStatusPending  = "pending"
	CallStatusAssigned = "assigned"
)

// Call holds the structure for the calls collection in mongo.
// AssignedTo carries the hex id of the responding user and stays null
// until an officer takes the call.
type Call struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Caller     string             `json:"caller" bson:"caller"`
	Message    string             `json:"message" bson:"message"`
	Status     string             `json:"status" bson:"status"`
	AssignedTo *string            `json:"assigned_to" bson:"assignedTo"`
	CreatedAt  primitive.DateTime `json:"created_at" bson:"createdAt"`
}
