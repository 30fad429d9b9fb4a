package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Alert levels
const (
	AlertLevelGreen  = "green"
	AlertLevelYellow = "yellow"
	AlertLevelRed    = "red"
)

// ValidAlertLevel reports whether level is one of the enumerated levels
func ValidAlertLevel(level string) bool {
	return level == AlertLevelGreen || level == AlertLevelYellow || level == AlertLevelRed
}

// Alert holds the structure for the alerts collection in mongo
type Alert struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Level     string             `json:"level" bson:"level"`
	Text      string             `json:"text" bson:"text"`
	CreatedBy string             `json:"created_by" bson:"createdBy"`
	CreatedAt primitive.DateTime `json:"created_at" bson:"createdAt"`
}
