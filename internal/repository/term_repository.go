package repository

import (
	"context"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TermRepository stores categories or tags.
type TermRepository[T model.Term] struct {
	*seoblog.MongoRepository[T]
}

func NewTermRepository[T model.Term](database *mongo.Database) *TermRepository[T] {
	return &TermRepository[T]{
		MongoRepository: seoblog.NewMongoRepository[T](database),
	}
}

func (r *TermRepository[T]) FindBySlug(ctx context.Context, slug string) (T, error) {
	return r.FindOneBy(ctx, "slug", slug)
}

func (r *TermRepository[T]) List(ctx context.Context) ([]T, error) {
	return r.FindByFilters(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

// DeleteBySlug removes the term only. Blogs keep their references.
func (r *TermRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	n, err := r.DeleteOneBy(ctx, "slug", slug)
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
