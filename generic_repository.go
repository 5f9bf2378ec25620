package seoblog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GenericRepository[T Document] interface {
	FindById(ctx context.Context, id interface{}) (T, error)
	Save(ctx context.Context, doc T) error
	SaveOrUpdate(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	UpdateFields(ctx context.Context, filter bson.M, update bson.M) (int64, error)
	Delete(ctx context.Context, id interface{}) error
	DeleteOneBy(ctx context.Context, field string, value interface{}) (int64, error)
	FindOneBy(ctx context.Context, field string, value interface{}, opts ...*options.FindOneOptions) (T, error)
	FindBy(ctx context.Context, field string, value interface{}) ([]T, error)
	FindByFilters(ctx context.Context, filters bson.M, opts ...*options.FindOptions) ([]T, error)
	CountByFilters(ctx context.Context, filters bson.M) (int64, error)
	ExistsBy(ctx context.Context, field string, value interface{}) (bool, error)
	Aggregate(ctx context.Context, pipeline interface{}, results interface{}) error
}

var _ GenericRepository[Document] = (*MongoRepository[Document])(nil)
