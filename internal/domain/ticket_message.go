package domain

import "time"

// Message captures one entry in a ticket's conversation thread.
type Message struct {
	ID        string    `json:"_id" bson:"_id"`
	Comments  string    `json:"comments" bson:"comments"`
	CommentBy string    `json:"commentBy" bson:"commentBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
