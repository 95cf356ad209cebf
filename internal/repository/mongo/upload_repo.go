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

const uploadCollectionName = "uploads"

var uploadIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "uploadedAt", Value: -1}},
		Options: options.Index(),
	},
	{
		// keys are generated per upload and must not collide
		Keys:    bson.D{{Key: "objectKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	},
}

// mongoUploadRepository implements repository.UploadRepository
type mongoUploadRepository struct {
	uploads table[domain.Upload]
}

// NewMongoUploadRepository creates a new Upload repository backed by MongoDB.
func NewMongoUploadRepository(db *mongo.Database) repository.UploadRepository {
	return &mongoUploadRepository{uploads: newTable[domain.Upload](db, uploadCollectionName)}
}

// Create inserts new upload metadata into the database.
func (r *mongoUploadRepository) Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	if upload.ClientID == primitive.NilObjectID || upload.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("upload requires clientId and objectKey")
	}

	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()
	return r.uploads.insertOne(ctx, upload)
}

// ListByClientID returns the uploads of a client, newest first.
func (r *mongoUploadRepository) ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Upload, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	return r.uploads.findMany(ctx, bson.M{"clientId": clientID}, opts)
}
