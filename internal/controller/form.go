package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog/internal/service"
)

// formValue returns the submitted value of key, or nil when the field was
// not sent at all.
func formValue(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}

// formUpload reads the file part named key. A request without that part
// yields nil.
func formUpload(c *gin.Context, key string) (*service.Upload, error) {
	header, err := c.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, service.ErrPhotoUnreadable
	}
	file, err := header.Open()
	if err != nil {
		return nil, service.ErrPhotoUnreadable
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, service.ErrPhotoUnreadable
	}
	return &service.Upload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}

func blogInput(c *gin.Context) (service.BlogInput, error) {
	photo, err := formUpload(c, "photo")
	if err != nil {
		return service.BlogInput{}, err
	}
	return service.BlogInput{
		Title:      formValue(c, "title"),
		Body:       formValue(c, "body"),
		Categories: formValue(c, "categories"),
		Tags:       formValue(c, "tags"),
		Photo:      photo,
	}, nil
}

func profileInput(c *gin.Context) (service.ProfileInput, error) {
	photo, err := formUpload(c, "photo")
	if err != nil {
		return service.ProfileInput{}, err
	}
	return service.ProfileInput{
		Name:     formValue(c, "name"),
		Username: formValue(c, "username"),
		Email:    formValue(c, "email"),
		About:    formValue(c, "about"),
		Password: formValue(c, "password"),
		Photo:    photo,
	}, nil
}
