package service

import (
	"context"
	"errors"

	"github.com/klass-lk/seoblog"
	"github.com/klass-lk/seoblog/internal/imaging"
	"github.com/klass-lk/seoblog/internal/model"
	"github.com/rs/zerolog/log"
)

// PhotoStorage validates uploads and decides where their bytes live:
// inline in the owning document, or in object storage when files is set.
type PhotoStorage struct {
	files    seoblog.FileService
	maxSize  int64
	maxWidth int
}

func NewPhotoStorage(files seoblog.FileService, maxSize int64, maxWidth int) *PhotoStorage {
	return &PhotoStorage{files: files, maxSize: maxSize, maxWidth: maxWidth}
}

// Prepare turns an upload into a stored photo under key. tooLarge is
// returned when the upload exceeds the size limit.
func (p *PhotoStorage) Prepare(ctx context.Context, key string, upload *Upload, tooLarge error) (*model.Photo, error) {
	if upload.Size > p.maxSize || int64(len(upload.Data)) > p.maxSize {
		return nil, tooLarge
	}
	normalized, err := imaging.Normalize(upload.Data, p.maxWidth)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("rejected photo upload")
		return nil, ErrPhotoUnreadable
	}

	if p.files == nil {
		return &model.Photo{Data: normalized.Data, ContentType: normalized.ContentType}, nil
	}
	if err := p.files.Upload(ctx, key, normalized.Data, normalized.ContentType); err != nil {
		return nil, err
	}
	return &model.Photo{ContentType: normalized.ContentType, Key: key}, nil
}

func (p *PhotoStorage) Load(ctx context.Context, photo *model.Photo) ([]byte, string, error) {
	if photo.IsEmpty() {
		return nil, "", ErrPhotoNotFound
	}
	if len(photo.Data) > 0 {
		return photo.Data, photo.ContentType, nil
	}
	if p.files == nil {
		return nil, "", ErrPhotoNotFound
	}
	data, contentType, err := p.files.Download(ctx, photo.Key)
	if errors.Is(err, seoblog.ErrFileNotFound) {
		return nil, "", ErrPhotoNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if photo.ContentType != "" {
		contentType = photo.ContentType
	}
	return data, contentType, nil
}

// Remove deletes an externally stored photo. Failures are logged only.
func (p *PhotoStorage) Remove(ctx context.Context, photo *model.Photo) {
	if p.files == nil || photo == nil || photo.Key == "" {
		return
	}
	if err := p.files.Delete(ctx, photo.Key); err != nil {
		log.Warn().Err(err).Str("key", photo.Key).Msg("failed to delete photo")
	}
}
