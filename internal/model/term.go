package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxTermNameLength = 32

// Term is the shape shared by categories and tags.
type Term interface {
	GetCollectionName() string
	GetID() primitive.ObjectID
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (Category) GetCollectionName() string {
	return "categories"
}

func (c Category) GetID() primitive.ObjectID {
	return c.ID
}

func NewCategory(name, slug string, now time.Time) Category {
	return Category{ID: primitive.NewObjectID(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
}

type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (Tag) GetCollectionName() string {
	return "tags"
}

func (t Tag) GetID() primitive.ObjectID {
	return t.ID
}

func NewTag(name, slug string, now time.Time) Tag {
	return Tag{ID: primitive.NewObjectID(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
}
