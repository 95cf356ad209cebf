// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaType says how an exercise demo is hosted.
type MediaType string

const (
	MediaYouTube MediaType = "youtube"
	MediaVimeo   MediaType = "vimeo"
	MediaImage   MediaType = "image"
	MediaNone    MediaType = "none"
)

func (m MediaType) IsValid() bool {
	switch m {
	case MediaYouTube, MediaVimeo, MediaImage, MediaNone:
		return true
	default:
		return false
	}
}

// Exercise is one entry of the exercise catalog. Workouts reference it by ID only.
type Exercise struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	NameKey         string             `bson:"nameKey" json:"-"` // lower-cased, trimmed name for find-or-create
	MediaType       MediaType          `bson:"mediaType" json:"mediaType"`
	MediaURL        string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	Instructions    string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	MuscleMain      string             `bson:"muscleMain,omitempty" json:"muscleMain,omitempty"` // e.g., "Chest", "Legs"
	MuscleSecondary []string           `bson:"muscleSecondary,omitempty" json:"muscleSecondary,omitempty"`
	Equipment       []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Level           string             `bson:"level,omitempty" json:"level,omitempty"` // beginner | intermediate | advanced
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedBy       primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
