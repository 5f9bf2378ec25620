package repository

import (
	"context"
	"regexp"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BlogRepository struct {
	*seoblog.MongoRepository[model.Blog]
}

func NewBlogRepository(database *mongo.Database) *BlogRepository {
	return &BlogRepository{
		MongoRepository: seoblog.NewMongoRepository[model.Blog](database),
	}
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (model.Blog, error) {
	return r.FindOneBy(ctx, "slug", slug)
}

// FindOwner returns the postedBy id of the blog with the given slug.
func (r *BlogRepository) FindOwner(ctx context.Context, slug string) (primitive.ObjectID, error) {
	blog, err := r.FindOneBy(ctx, "slug", slug, options.FindOne().SetProjection(bson.M{"postedBy": 1}))
	if err != nil {
		return primitive.NilObjectID, err
	}
	return blog.PostedBy, nil
}

// FindPhoto loads only the photo of the blog with the given slug.
func (r *BlogRepository) FindPhoto(ctx context.Context, slug string) (*model.Photo, error) {
	blog, err := r.FindOneBy(ctx, "slug", slug, options.FindOne().SetProjection(bson.M{"photo": 1}))
	if err != nil {
		return nil, err
	}
	return blog.Photo, nil
}

func (r *BlogRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return r.ExistsBy(ctx, "slug", slug)
}

func (r *BlogRepository) DeleteBySlug(ctx context.Context, slug string) error {
	n, err := r.DeleteOneBy(ctx, "slug", slug)
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List runs a projected, populated listing.
func (r *BlogRepository) List(ctx context.Context, q BlogQuery) ([]model.BlogView, error) {
	results := make([]model.BlogView, 0)
	if err := r.Aggregate(ctx, q.Pipeline(), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FindView returns one populated blog by slug.
func (r *BlogRepository) FindView(ctx context.Context, slug string) (model.BlogView, error) {
	views, err := r.List(ctx, BlogQuery{Filter: bson.M{"slug": slug}, Fields: ReadFields, Limit: 1})
	if err != nil {
		return model.BlogView{}, err
	}
	if len(views) == 0 {
		return model.BlogView{}, mongo.ErrNoDocuments
	}
	return views[0], nil
}

// SearchFilter matches title or body case-insensitively. The term is
// matched literally.
func SearchFilter(term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"body": pattern},
	}}
}

// RelatedFilter matches other blogs sharing any of categories.
func RelatedFilter(id primitive.ObjectID, categories []primitive.ObjectID) bson.M {
	if categories == nil {
		categories = []primitive.ObjectID{}
	}
	return bson.M{
		"_id":        bson.M{"$ne": id},
		"categories": bson.M{"$in": categories},
	}
}
