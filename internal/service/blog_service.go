package service

import (
	"context"
	"errors"
	"time"

	"github.com/gosimple/slug"
	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/repository"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultListingLimit = 10
	DefaultRelatedLimit = 3
)

type BlogService struct {
	blogs      *repository.BlogRepository
	users      *repository.UserRepository
	categories *repository.TermRepository[model.Category]
	tags       *repository.TermRepository[model.Tag]
	photos     *PhotoStorage
	cache      seoblog.CacheService
	appName    string
}

func NewBlogService(
	blogs *repository.BlogRepository,
	users *repository.UserRepository,
	categories *repository.TermRepository[model.Category],
	tags *repository.TermRepository[model.Tag],
	photos *PhotoStorage,
	cache seoblog.CacheService,
	appName string,
) *BlogService {
	return &BlogService{
		blogs:      blogs,
		users:      users,
		categories: categories,
		tags:       tags,
		photos:     photos,
		cache:      cache,
		appName:    appName,
	}
}

type ListingResponse struct {
	Blogs      []model.BlogView `json:"blogs"`
	Categories []model.Category `json:"categories"`
	Tags       []model.Tag      `json:"tags"`
	Size       int              `json:"size"`
}

// Create validates input and stores the blog with its categories and tags
// in one insert.
func (s *BlogService) Create(ctx context.Context, auth seoblog.AuthContext, input BlogInput) (model.Blog, error) {
	if input.Title == nil {
		return model.Blog{}, ErrTitleRequired
	}
	title, err := validTitle(*input.Title)
	if err != nil {
		return model.Blog{}, err
	}
	if input.Body == nil {
		return model.Blog{}, ErrContentTooShort
	}
	if err := validBody(*input.Body); err != nil {
		return model.Blog{}, err
	}
	categories, err := requiredIDs(input.Categories, ErrCategoryRequired)
	if err != nil {
		return model.Blog{}, err
	}
	tags, err := requiredIDs(input.Tags, ErrTagRequired)
	if err != nil {
		return model.Blog{}, err
	}
	owner, err := primitive.ObjectIDFromHex(auth.UserID)
	if err != nil {
		return model.Blog{}, seoblog.ErrUnauthorized.New("Unauthorized")
	}

	now := time.Now()
	blog := model.Blog{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Body:       *input.Body,
		Excerpt:    Excerpt(*input.Body),
		MTitle:     MetaTitle(title, s.appName),
		MDesc:      MetaDescription(*input.Body),
		Categories: categories,
		Tags:       tags,
		PostedBy:   owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	blog.Slug = slug.Make(title)
	if blog.Slug == "" {
		blog.Slug = blog.ID.Hex()
	}
	taken, err := s.blogs.SlugTaken(ctx, blog.Slug)
	if err != nil {
		return model.Blog{}, err
	}
	if taken {
		return model.Blog{}, ErrSlugTaken
	}

	if input.Photo != nil {
		photo, err := s.photos.Prepare(ctx, "blogs/"+blog.ID.Hex(), input.Photo, ErrBlogPhotoTooLarge)
		if err != nil {
			return model.Blog{}, err
		}
		blog.Photo = photo
	}

	if err := s.blogs.Save(ctx, blog); err != nil {
		s.photos.Remove(ctx, blog.Photo)
		return model.Blog{}, seoblog.TranslateError(err, "Blog")
	}
	seoblog.InvalidateTags(ctx, s.cache, CacheTagBlogs)
	log.Info().Str("slug", blog.Slug).Str("user_id", auth.UserID).Msg("blog created")
	return blog, nil
}

func requiredIDs(csv *string, missing error) ([]primitive.ObjectID, error) {
	if csv == nil {
		return nil, missing
	}
	ids, err := parseIDs(*csv)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, missing
	}
	return ids, nil
}

// Update applies the fields present in input. The slug never changes.
func (s *BlogService) Update(ctx context.Context, slugValue string, input BlogInput) (model.Blog, error) {
	blog, err := s.blogs.FindBySlug(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Blog{}, ErrBlogNotFound
	}
	if err != nil {
		return model.Blog{}, err
	}

	if input.Title != nil {
		title, err := validTitle(*input.Title)
		if err != nil {
			return model.Blog{}, err
		}
		blog.Title = title
		blog.MTitle = MetaTitle(title, s.appName)
	}
	if input.Body != nil {
		if err := validBody(*input.Body); err != nil {
			return model.Blog{}, err
		}
		blog.Body = *input.Body
		blog.Excerpt = Excerpt(blog.Body)
		blog.MDesc = MetaDescription(blog.Body)
	}
	if input.Categories != nil {
		if blog.Categories, err = requiredIDs(input.Categories, ErrCategoryRequired); err != nil {
			return model.Blog{}, err
		}
	}
	if input.Tags != nil {
		if blog.Tags, err = requiredIDs(input.Tags, ErrTagRequired); err != nil {
			return model.Blog{}, err
		}
	}
	if input.Photo != nil {
		photo, err := s.photos.Prepare(ctx, "blogs/"+blog.ID.Hex(), input.Photo, ErrBlogPhotoTooLarge)
		if err != nil {
			return model.Blog{}, err
		}
		blog.Photo = photo
	}
	blog.UpdatedAt = time.Now()

	if err := s.blogs.Update(ctx, blog); err != nil {
		return model.Blog{}, seoblog.TranslateError(err, "Blog")
	}
	seoblog.InvalidateTags(ctx, s.cache, CacheTagBlogs)
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, slugValue string) (MessageResponse, error) {
	photo, err := s.blogs.FindPhoto(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MessageResponse{}, ErrBlogNotFound
	}
	if err != nil {
		return MessageResponse{}, err
	}
	if err := s.blogs.DeleteBySlug(ctx, slugValue); err != nil {
		return MessageResponse{}, seoblog.TranslateError(err, "Blog")
	}
	s.photos.Remove(ctx, photo)
	seoblog.InvalidateTags(ctx, s.cache, CacheTagBlogs)
	return MessageResponse{Message: "Blog deleted successfully"}, nil
}

func (s *BlogService) List(ctx context.Context) ([]model.BlogView, error) {
	return s.blogs.List(ctx, repository.BlogQuery{Fields: repository.ListFields})
}

// ListWithTaxonomies returns one page of blogs together with every
// category and tag.
func (s *BlogService) ListWithTaxonomies(ctx context.Context, req ListingRequest) (ListingResponse, error) {
	limit, skip := DefaultListingLimit, 0
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}
	if req.Skip != nil && *req.Skip > 0 {
		skip = *req.Skip
	}

	blogs, err := s.blogs.List(ctx, repository.BlogQuery{
		Fields: repository.ListFields,
		Skip:   int64(skip),
		Limit:  int64(limit),
	})
	if err != nil {
		return ListingResponse{}, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return ListingResponse{}, err
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		return ListingResponse{}, err
	}
	return ListingResponse{Blogs: blogs, Categories: categories, Tags: tags, Size: len(blogs)}, nil
}

func (s *BlogService) Read(ctx context.Context, slugValue string) (model.BlogView, error) {
	view, err := s.blogs.FindView(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.BlogView{}, ErrBlogNotFound
	}
	return view, err
}

func (s *BlogService) Photo(ctx context.Context, slugValue string) ([]byte, string, error) {
	photo, err := s.blogs.FindPhoto(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", ErrBlogNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return s.photos.Load(ctx, photo)
}

// Related lists other blogs sharing at least one category with req.Blog.
func (s *BlogService) Related(ctx context.Context, req RelatedRequest) ([]model.BlogView, error) {
	if req.Blog.ID.IsZero() {
		return nil, seoblog.ErrValidation.New("Blog is required")
	}
	limit := DefaultRelatedLimit
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}
	return s.blogs.List(ctx, repository.BlogQuery{
		Filter: repository.RelatedFilter(req.Blog.ID, req.Blog.Categories),
		Fields: repository.RelatedFields,
		Limit:  int64(limit),
	})
}

// Search matches term against titles and bodies. An empty term matches
// nothing.
func (s *BlogService) Search(ctx context.Context, term string) ([]model.BlogView, error) {
	if term == "" {
		return []model.BlogView{}, nil
	}
	return s.blogs.List(ctx, repository.BlogQuery{
		Filter: repository.SearchFilter(term),
		Fields: repository.SearchFields,
	})
}

func (s *BlogService) ListByUser(ctx context.Context, username string) ([]model.BlogView, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.ListByAuthor(ctx, user.ID, 0)
}

// ListByAuthor lists the newest blogs posted by author. Limit 0 means all.
func (s *BlogService) ListByAuthor(ctx context.Context, author primitive.ObjectID, limit int64) ([]model.BlogView, error) {
	return s.blogs.List(ctx, repository.BlogQuery{
		Filter: bson.M{"postedBy": author},
		Fields: repository.ListFields,
		Limit:  limit,
	})
}

// ListByTerm lists blogs referencing the category or tag id in field.
func (s *BlogService) ListByTerm(ctx context.Context, field string, id primitive.ObjectID) ([]model.BlogView, error) {
	return s.blogs.List(ctx, repository.BlogQuery{
		Filter: bson.M{field: id},
		Fields: repository.ListFields,
	})
}

// OwnerOf returns the hex id of the user who posted the blog.
func (s *BlogService) OwnerOf(ctx context.Context, slugValue string) (string, error) {
	owner, err := s.blogs.FindOwner(ctx, slugValue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrBlogNotFound
	}
	if err != nil {
		return "", err
	}
	return owner.Hex(), nil
}
