package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientTrainingAssignment links a client to the program they currently follow.
// A client holds at most one; assigning a new program replaces the old assignment.
type ClientTrainingAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	ProgramID  primitive.ObjectID `bson:"programId" json:"programId"`
	StartDate  time.Time          `bson:"startDate" json:"startDate"` // date only, midnight UTC
	AssignedBy primitive.ObjectID `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`
}
