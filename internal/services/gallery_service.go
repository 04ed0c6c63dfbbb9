package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/storage"
	"dernek-backend/internal/timeutil"
)

// Accepted upload types for the gallery
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"video/mp4":  true,
}

type GalleryService struct {
	Repo  *repositories.GalleryRepository
	Store *storage.MediaStore
}

func NewGalleryService(repo *repositories.GalleryRepository, store *storage.MediaStore) *GalleryService {
	return &GalleryService{Repo: repo, Store: store}
}

// Upload streams a media file to object storage and records it
func (s *GalleryService) Upload(ctx context.Context, title, filename, contentType string, size int64, body io.Reader, uploadedBy int) (*models.GalleryItem, error) {
	if s.Store == nil {
		return nil, errors.New("media storage is not configured")
	}
	if !allowedMediaTypes[contentType] {
		return nil, fmt.Errorf("unsupported media type %q", contentType)
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("gallery/%d/%d%s", timeutil.Now().Year(), timeutil.Now().UnixNano(), ext)

	url, err := s.Store.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	item := &models.GalleryItem{
		Title:       title,
		ObjectKey:   key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  uploadedBy,
	}
	if err := s.Repo.Create(ctx, item); err != nil {
		// The object is already up; an orphan in the bucket beats a
		// gallery row with no object
		return nil, err
	}
	return item, nil
}

func (s *GalleryService) List(ctx context.Context) ([]*models.GalleryItem, error) {
	return s.Repo.List(ctx)
}

// Delete removes the gallery row first, then best-effort deletes the object
func (s *GalleryService) Delete(ctx context.Context, id int) error {
	item, err := s.Repo.Get(ctx, id)
	if err != nil {
		return errors.New("gallery item not found")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Store != nil {
		if err := s.Store.Delete(ctx, item.ObjectKey); err != nil {
			log.Printf("[Gallery] Failed to delete object %s: %v", item.ObjectKey, err)
		}
	}
	return nil
}
