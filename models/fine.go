package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Fine holds the structure for the fines collection in mongo
type Fine struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Offender  string             `json:"offender" bson:"offender"`
	Amount    int                `json:"amount" bson:"amount"`
	Reason    string             `json:"reason" bson:"reason"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt primitive.DateTime `json:"created_at" bson:"createdAt"`
}
