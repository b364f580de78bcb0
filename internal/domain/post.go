package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the persisted blog entry. ID and Date are server-assigned at
// creation and never change afterwards.
type Post struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
	Author  string             `bson:"author" json:"author"`
	Tags    []string           `bson:"tags" json:"tags"`
	Date    time.Time          `bson:"date" json:"date"`
}

// PostPatch carries the user-modifiable fields of an update. Date and ID are
// deliberately absent.
type PostPatch struct {
	Title   string
	Content string
	Author  string
	Tags    []string
}
