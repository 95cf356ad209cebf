package mongo

import (
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// table holds the collection plumbing shared by all repositories of documents of type T.
type table[T any] struct {
	collection *mongo.Collection
}

func newTable[T any](db *mongo.Database, name string) table[T] {
	return table[T]{collection: db.Collection(name)}
}

func (t table[T]) insertOne(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := t.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (t table[T]) insertMany(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	// Ordered insert: rows keep their slice order and the batch stops at the first failure.
	_, err := t.collection.InsertMany(ctx, batch, options.InsertMany().SetOrdered(true))
	return err
}

func (t table[T]) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	if err := t.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (t table[T]) findMany(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := t.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// findIn is the one-query-per-level child fetch: every document whose field is in ids.
func (t table[T]) findIn(ctx context.Context, field string, ids []primitive.ObjectID, sort bson.D) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	return t.findMany(ctx, bson.M{field: bson.M{"$in": ids}}, opts)
}

func (t table[T]) deleteIn(ctx context.Context, field string, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.collection.DeleteMany(ctx, bson.M{field: bson.M{"$in": ids}})
	return err
}

func (t table[T]) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := t.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t table[T]) updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := t.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
