package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinBodyLength    = 200
	MaxBodyLength    = 2000000
	MaxExcerptLength = 1000
	MinTitleLength   = 3
	MaxTitleLength   = 160
)

// Blog holds its category and tag references inline, so a single insert
// stores the post together with every association.
type Blog struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title      string               `bson:"title" json:"title"`
	Slug       string               `bson:"slug" json:"slug"`
	Body       string               `bson:"body" json:"body"`
	Excerpt    string               `bson:"excerpt" json:"excerpt"`
	MTitle     string               `bson:"mtitle" json:"mtitle"`
	MDesc      string               `bson:"mdesc" json:"mdesc"`
	Photo      *Photo               `bson:"photo,omitempty" json:"-"`
	Categories []primitive.ObjectID `bson:"categories" json:"categories"`
	Tags       []primitive.ObjectID `bson:"tags" json:"tags"`
	PostedBy   primitive.ObjectID   `bson:"postedBy" json:"postedBy"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (Blog) GetCollectionName() string {
	return "blogs"
}

// Ref is a populated category or tag reference.
type Ref struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

// Author is a populated postedBy reference.
type Author struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Username string             `bson:"username" json:"username"`
	Profile  string             `bson:"profile,omitempty" json:"profile,omitempty"`
}

// BlogView is a projected blog with its references expanded. Fields left
// out of the projection are omitted from the JSON.
type BlogView struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Body       string             `bson:"body,omitempty" json:"body,omitempty"`
	Excerpt    string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	MTitle     string             `bson:"mtitle,omitempty" json:"mtitle,omitempty"`
	MDesc      string             `bson:"mdesc,omitempty" json:"mdesc,omitempty"`
	Categories []Ref              `bson:"categories,omitempty" json:"categories,omitempty"`
	Tags       []Ref              `bson:"tags,omitempty" json:"tags,omitempty"`
	PostedBy   *Author            `bson:"postedBy,omitempty" json:"postedBy,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
