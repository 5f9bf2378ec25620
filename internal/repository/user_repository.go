package repository

import (
	"context"
	"strings"
	"time"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	*seoblog.MongoRepository[model.User]
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{
		MongoRepository: seoblog.NewMongoRepository[model.User](database),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.FindOneBy(ctx, "email", normalizeEmail(email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.FindOneBy(ctx, "username", strings.ToLower(username))
}

func (r *UserRepository) FindByResetLink(ctx context.Context, link string) (model.User, error) {
	return r.FindOneBy(ctx, "resetPasswordLink", link)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.ExistsBy(ctx, "email", normalizeEmail(email))
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.ExistsBy(ctx, "username", strings.ToLower(username))
}

// SetResetLink stores a reset token on the user with the given id.
func (r *UserRepository) SetResetLink(ctx context.Context, id interface{}, link string, expires time.Time) error {
	n, err := r.UpdateFields(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordLink":    link,
		"resetPasswordExpires": expires,
	}})
	if err != nil {
		return err
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearExpiredResetLinks blanks reset tokens that expired before now.
func (r *UserRepository) ClearExpiredResetLinks(ctx context.Context, now time.Time) (int64, error) {
	return r.UpdateFields(ctx,
		bson.M{"resetPasswordLink": bson.M{"$ne": ""}, "resetPasswordExpires": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"resetPasswordLink": ""}, "$unset": bson.M{"resetPasswordExpires": ""}},
	)
}

func (r *UserRepository) SetRole(ctx context.Context, email string, role int) error {
	n, err := r.UpdateFields(ctx, bson.M{"email": normalizeEmail(email)}, bson.M{"$set": bson.M{
		"role":      role,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if n == 0 {
		exists, err := r.EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if !exists {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
