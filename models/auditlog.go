package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AuditLogEntry holds the structure for the logs collection in mongo.
// Entries are append-only; nothing updates or deletes them.
type AuditLogEntry struct {
	ID  primitive.ObjectID `json:"id" bson:"_id"`
	Msg string             `json:"msg" bson:"msg"`
	T   primitive.DateTime `json:"t" bson:"t"`
}
