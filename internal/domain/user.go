package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// User is the identity record behind a JWT. Coaches author programs, clients execute them.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Email        string              `bson:"email" json:"email"`    // unique
	PasswordHash string              `bson:"passwordHash" json:"-"` // never exposed
	Role         Role                `bson:"role" json:"role"`
	CoachID      *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

func (r Role) IsValid() bool {
	return r == RoleCoach || r == RoleClient
}
