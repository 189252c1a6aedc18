package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"storefront-api/internal/ports"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage uploads files to Cloudinary. Filenames are public ids.
type CloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	rootFolder string
}

// NewCloudinaryStorage creates storage from a cloudinary:// URL
func NewCloudinaryStorage(cloudinaryURL, rootFolder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, rootFolder: rootFolder}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (*ports.StoredFile, error) {
	publicID := strings.TrimSuffix(filename, path.Ext(filename))

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   path.Join(s.rootFolder, folder),
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}

	return &ports.StoredFile{
		Filename: res.PublicID,
		URL:      res.SecureURL,
		Size:     int64(res.Bytes),
	}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, filename string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: filename})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", res.Error.Message)
	}
	return nil
}

var _ ports.FileStorage = (*CloudinaryStorage)(nil)
