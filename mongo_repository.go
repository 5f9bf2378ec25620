package seoblog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	readTimeout  = 5 * time.Second
	queryTimeout = 10 * time.Second
)

type MongoRepository[T Document] struct {
	collection *mongo.Collection
}

func NewMongoRepository[T Document](db *mongo.Database) *MongoRepository[T] {
	var doc T
	return &MongoRepository[T]{
		collection: db.Collection(doc.GetCollectionName()),
	}
}

func (r *MongoRepository[T]) FindById(ctx context.Context, id interface{}) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var result T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	return result, err
}

func (r *MongoRepository[T]) Save(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoRepository[T]) SaveOrUpdate(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": getDocumentID(doc)}, doc, options.Replace().SetUpsert(true))
	return err
}

// Update replaces the stored document with the same _id. It reports
// mongo.ErrNoDocuments when nothing matched.
func (r *MongoRepository[T]) Update(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": getDocumentID(doc)}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository[T]) UpdateFields(ctx context.Context, filter bson.M, update bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository[T]) DeleteOneBy(ctx context.Context, field string, value interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	res, err := r.collection.DeleteOne(ctx, bson.M{field: value})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository[T]) FindOneBy(ctx context.Context, field string, value interface{}, opts ...*options.FindOneOptions) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var result T
	err := r.collection.FindOne(ctx, bson.M{field: value}, opts...).Decode(&result)
	return result, err
}

func (r *MongoRepository[T]) FindBy(ctx context.Context, field string, value interface{}) ([]T, error) {
	return r.FindByFilters(ctx, bson.M{field: value})
}

func (r *MongoRepository[T]) FindByFilters(ctx context.Context, filters bson.M, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filters, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *MongoRepository[T]) CountByFilters(ctx context.Context, filters bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return r.collection.CountDocuments(ctx, filters)
}

func (r *MongoRepository[T]) ExistsBy(ctx context.Context, field string, value interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	err := r.collection.FindOne(ctx, bson.M{field: value}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// Aggregate runs pipeline and decodes every result into results, which
// must be a pointer to a slice.
func (r *MongoRepository[T]) Aggregate(ctx context.Context, pipeline interface{}, results interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, results)
}

func (r *MongoRepository[T]) Query() *mongo.Collection {
	return r.collection
}
