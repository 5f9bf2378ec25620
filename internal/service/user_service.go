package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/klass-lk/seoblog/internal/repository"
	"github.com/klass-lk/seoblog/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	publicProfileBlogs = 10
	minPasswordLength  = 6
	maxUsernameLength  = 32
)

type UserService struct {
	users     *repository.UserRepository
	blogs     *BlogService
	photos    *PhotoStorage
	encoder   security.PasswordEncoder
	cache     seoblog.CacheService
	clientURL string
}

func NewUserService(users *repository.UserRepository, blogs *BlogService, photos *PhotoStorage, encoder security.PasswordEncoder, cache seoblog.CacheService, clientURL string) *UserService {
	return &UserService{users: users, blogs: blogs, photos: photos, encoder: encoder, cache: cache, clientURL: clientURL}
}

type PublicProfileResponse struct {
	User  model.PublicUser `json:"user"`
	Blogs []model.BlogView `json:"blogs"`
}

func (s *UserService) find(ctx context.Context, userID string) (model.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.User{}, ErrUserNotFound
	}
	user, err := s.users.FindById(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrUserNotFound
	}
	return user, err
}

// Profile returns the signed-in user. Password hash and photo are never
// serialized.
func (s *UserService) Profile(ctx context.Context, auth seoblog.AuthContext) (model.User, error) {
	return s.find(ctx, auth.UserID)
}

func (s *UserService) PublicProfile(ctx context.Context, username string) (PublicProfileResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return PublicProfileResponse{}, ErrUserNotFound
	}
	if err != nil {
		return PublicProfileResponse{}, err
	}
	blogs, err := s.blogs.ListByAuthor(ctx, user.ID, publicProfileBlogs)
	if err != nil {
		return PublicProfileResponse{}, err
	}
	return PublicProfileResponse{User: user.Public(), Blogs: blogs}, nil
}

// Update changes the profile fields present in input. Role and the reset
// token cannot be set this way.
func (s *UserService) Update(ctx context.Context, auth seoblog.AuthContext, input ProfileInput) (model.User, error) {
	user, err := s.find(ctx, auth.UserID)
	if err != nil {
		return model.User{}, err
	}

	if input.Name != nil {
		name, err := validName(*input.Name)
		if err != nil {
			return model.User{}, err
		}
		user.Name = name
	}
	if input.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*input.Username))
		if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
			return model.User{}, seoblog.ErrValidation.New("Username must be between 1 and 32 characters long")
		}
		if username != user.Username {
			taken, err := s.users.UsernameTaken(ctx, username)
			if err != nil {
				return model.User{}, err
			}
			if taken {
				return model.User{}, ErrUsernameTaken
			}
			user.Username = username
			user.Profile = s.clientURL + "/profile/" + username
		}
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != "" && email != user.Email {
			taken, err := s.users.EmailTaken(ctx, email)
			if err != nil {
				return model.User{}, err
			}
			if taken {
				return model.User{}, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if input.About != nil {
		user.About = strings.TrimSpace(*input.About)
	}
	if input.Password != nil && *input.Password != "" {
		if utf8.RuneCountInString(*input.Password) < minPasswordLength {
			return model.User{}, ErrPasswordTooShort
		}
		hash, err := s.encoder.GetPasswordHash(*input.Password)
		if err != nil {
			return model.User{}, err
		}
		user.HashedPassword = hash
	}
	if input.Photo != nil {
		photo, err := s.photos.Prepare(ctx, "users/"+user.ID.Hex(), input.Photo, ErrUserPhotoTooLarge)
		if err != nil {
			return model.User{}, err
		}
		user.Photo = photo
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return model.User{}, seoblog.TranslateError(err, "User")
	}
	// populated listings embed author names
	seoblog.InvalidateTags(ctx, s.cache, CacheTagBlogs)
	return user, nil
}

func (s *UserService) Photo(ctx context.Context, username string) ([]byte, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return s.photos.Load(ctx, user.Photo)
}
