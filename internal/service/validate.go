package service

import (
	"strings"
	"unicode/utf8"

	"github.com/klass-lk/seoblog/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > model.MaxTermNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	n := utf8.RuneCountInString(title)
	if n < model.MinTitleLength || n > model.MaxTitleLength {
		return "", ErrTitleLength
	}
	return title, nil
}

func validBody(body string) error {
	n := utf8.RuneCountInString(body)
	if n < model.MinBodyLength {
		return ErrContentTooShort
	}
	if n > model.MaxBodyLength {
		return ErrContentTooLong
	}
	return nil
}

// parseIDs splits a comma separated list of object ids. Blank items are
// skipped.
func parseIDs(csv string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(part)
		if err != nil {
			return nil, ErrInvalidReference
		}
		ids = append(ids, id)
	}
	return ids, nil
}
