package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username             string             `bson:"username" json:"username"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Profile              string             `bson:"profile" json:"profile"`
	HashedPassword       string             `bson:"hashed_password" json:"-"`
	About                string             `bson:"about,omitempty" json:"about,omitempty"`
	Role                 int                `bson:"role" json:"role"`
	Photo                *Photo             `bson:"photo,omitempty" json:"-"`
	ResetPasswordLink    string             `bson:"resetPasswordLink" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (User) GetCollectionName() string {
	return "users"
}

// SessionUser is the user shape returned on sign-in.
type SessionUser struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     int                `json:"role"`
}

// PublicUser is a profile with credentials, role and photo removed.
type PublicUser struct {
	ID        primitive.ObjectID `json:"_id"`
	Username  string             `json:"username"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Profile   string             `json:"profile"`
	About     string             `json:"about,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (u User) Session() SessionUser {
	return SessionUser{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Profile:   u.Profile,
		About:     u.About,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
