package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// WantedEntry holds the structure for the wanted (BOLO) collection in mongo
type WantedEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Bounty      int                `json:"bounty" bson:"bounty"`
	CreatedAt   primitive.DateTime `json:"created_at" bson:"createdAt"`
}
