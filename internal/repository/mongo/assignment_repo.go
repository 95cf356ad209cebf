package mongo

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "client_training_assignments"

var assignmentIndexes = []mongo.IndexModel{
	{
		// a client follows at most one program
		Keys:    bson.D{{Key: "clientId", Value: 1}},
		Options: options.Index().SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "programId", Value: 1}},
		Options: options.Index(),
	},
}

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	assignments table[domain.ClientTrainingAssignment]
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		assignments: newTable[domain.ClientTrainingAssignment](db, assignmentCollectionName),
	}
}

// Create inserts a new assignment. ErrDuplicate is returned when the client already has one.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.ClientTrainingAssignment) (primitive.ObjectID, error) {
	if assignment.ClientID == primitive.NilObjectID || assignment.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires clientId and programId")
	}

	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	return r.assignments.insertOne(ctx, assignment)
}

// GetByClientID retrieves the assignment of a client.
func (r *mongoAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientTrainingAssignment, error) {
	return r.assignments.findOne(ctx, bson.M{"clientId": clientID})
}

// DeleteByClientID removes the assignment of a client. Missing assignments are not an error.
func (r *mongoAssignmentRepository) DeleteByClientID(ctx context.Context, clientID primitive.ObjectID) error {
	return r.assignments.deleteIn(ctx, "clientId", []primitive.ObjectID{clientID})
}

// ExistsForProgram reports whether any client follows the program.
func (r *mongoAssignmentRepository) ExistsForProgram(ctx context.Context, programID primitive.ObjectID) (bool, error) {
	count, err := r.assignments.collection.CountDocuments(ctx, bson.M{"programId": programID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
