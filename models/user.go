package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the structure for the users collection in mongo. The
// password hash never leaves the server, hence the json omission.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Username  string             `json:"username" bson:"username"`
	Display   string             `json:"display" bson:"display"`
	Password  string             `json:"-" bson:"password"`
	Role      Role               `json:"role" bson:"role"`
	Badge     string             `json:"badge" bson:"badge"`
	OnDuty    bool               `json:"onDuty" bson:"onDuty"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// DutyEntry is the onDutyList projection of a user
type DutyEntry struct {
	ID      primitive.ObjectID `json:"id"`
	Display string             `json:"display"`
}
