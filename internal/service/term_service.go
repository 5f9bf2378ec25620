package service

import (
	"context"
	"errors"
	"time"

	"github.com/gosimple/slug"
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

// TermKind describes how one taxonomy (categories or tags) is named and
// referenced from blogs.
type TermKind[T model.Term] struct {
	// Resource is used in messages, e.g. "Category".
	Resource string
	// Key is the JSON key of the single term in read responses.
	Key string
	// BlogField is the blog field holding references to this kind.
	BlogField string
	CacheTag  string
	New       func(name, slug string, now time.Time) T
}

var (
	CategoryKind = TermKind[model.Category]{
		Resource:  "Category",
		Key:       "category",
		BlogField: "categories",
		CacheTag:  CacheTagCategories,
		New:       model.NewCategory,
	}
	TagKind = TermKind[model.Tag]{
		Resource:  "Tag",
		Key:       "tag",
		BlogField: "tags",
		CacheTag:  CacheTagTags,
		New:       model.NewTag,
	}
)

type TermService[T model.Term] struct {
	kind  TermKind[T]
	terms *repository.TermRepository[T]
	blogs *BlogService
	cache seoblog.CacheService
}

func NewTermService[T model.Term](kind TermKind[T], terms *repository.TermRepository[T], blogs *BlogService, cache seoblog.CacheService) *TermService[T] {
	return &TermService[T]{kind: kind, terms: terms, blogs: blogs, cache: cache}
}

func (s *TermService[T]) Kind() TermKind[T] {
	return s.kind
}

func (s *TermService[T]) Create(ctx context.Context, req TermRequest) (T, error) {
	var zero T
	name, err := validName(req.Name)
	if err != nil {
		return zero, err
	}
	termSlug, err := termSlug(name)
	if err != nil {
		return zero, err
	}
	term := s.kind.New(name, termSlug, time.Now())
	if err := s.terms.Save(ctx, term); err != nil {
		return zero, seoblog.TranslateError(err, s.kind.Resource)
	}
	seoblog.InvalidateTags(ctx, s.cache, s.kind.CacheTag)
	return term, nil
}

func (s *TermService[T]) List(ctx context.Context) ([]T, error) {
	return s.terms.List(ctx)
}

// Read returns the term with every blog that references it.
func (s *TermService[T]) Read(ctx context.Context, slugValue string) (map[string]interface{}, error) {
	term, err := s.terms.FindBySlug(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, seoblog.ErrNotFound.New(s.kind.Resource)
	}
	if err != nil {
		return nil, err
	}
	blogs, err := s.blogs.ListByTerm(ctx, s.kind.BlogField, term.GetID())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{s.kind.Key: term, "blogs": blogs}, nil
}

// Delete removes the term. Blogs referencing it keep the dangling id.
func (s *TermService[T]) Delete(ctx context.Context, slugValue string) (MessageResponse, error) {
	if err := s.terms.DeleteBySlug(ctx, slugValue); err != nil {
		return MessageResponse{}, seoblog.TranslateError(err, s.kind.Resource)
	}
	// populated blog reads drop the deleted reference
	seoblog.InvalidateTags(ctx, s.cache, s.kind.CacheTag, CacheTagBlogs)
	return MessageResponse{Message: s.kind.Resource + " deleted successfully"}, nil
}

// termSlug derives the lookup slug for a category or tag. Names made only
// of symbols have none and are rejected.
func termSlug(name string) (string, error) {
	value := slug.Make(name)
	if value == "" {
		return "", ErrSlugEmpty
	}
	return value, nil
}
