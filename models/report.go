package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report holds the structure for the reports collection in mongo
type Report struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Author      string             `json:"author" bson:"author"`
	CreatedAt   primitive.DateTime `json:"created_at" bson:"createdAt"`
}
