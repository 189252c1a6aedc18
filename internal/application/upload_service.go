package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MaxUploadSize  = 5 << 20
	MaxUploadFiles = 10

	folderProducts       = "products"
	folderCustomizations = "customizations"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadFile is one part of a multipart upload
type UploadFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// UploadService validates and stores images
type UploadService struct {
	storage ports.FileStorage
	maxSize int64
	logger  zerolog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(storage ports.FileStorage, logger zerolog.Logger) *UploadService {
	return &UploadService{storage: storage, maxSize: MaxUploadSize, logger: logger}
}

// Single stores one catalog image
func (s *UploadService) Single(ctx context.Context, f UploadFile) (*ports.StoredFile, error) {
	return s.save(ctx, folderProducts, f)
}

// Multiple stores up to MaxUploadFiles catalog images. Nothing is kept if
// any file is rejected before storage.
func (s *UploadService) Multiple(ctx context.Context, files []UploadFile) ([]*ports.StoredFile, error) {
	if len(files) == 0 {
		return nil, domain.Invalid("No files uploaded")
	}
	if len(files) > MaxUploadFiles {
		return nil, domain.Invalid("At most %d files can be uploaded at once", MaxUploadFiles)
	}

	bufs := make([]*bufferedFile, 0, len(files))
	for _, f := range files {
		b, err := s.read(f)
		if err != nil {
			return nil, err
		}
		bufs = append(bufs, b)
	}

	out := make([]*ports.StoredFile, 0, len(bufs))
	for _, b := range bufs {
		stored, err := s.store(ctx, folderProducts, b)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// Customization stores a customer-supplied design or preview
func (s *UploadService) Customization(ctx context.Context, f UploadFile) (*ports.StoredFile, error) {
	return s.save(ctx, folderCustomizations, f)
}

// Delete removes a stored file by the name returned at upload
func (s *UploadService) Delete(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return domain.Invalid("Filename is required")
	}
	if err := s.storage.Delete(ctx, filename); err != nil {
		return err
	}
	s.logger.Info().Str("filename", filename).Msg("Upload deleted")
	return nil
}

type bufferedFile struct {
	name     string
	mimeType string
	ext      string
	data     []byte
}

func (s *UploadService) save(ctx context.Context, folder string, f UploadFile) (*ports.StoredFile, error) {
	b, err := s.read(f)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, folder, b)
}

// read buffers the file and checks size and sniffed content type. The
// client-declared type is ignored.
func (s *UploadService) read(f UploadFile) (*bufferedFile, error) {
	if f.Content == nil {
		return nil, domain.Invalid("No file uploaded")
	}
	if f.Size > s.maxSize {
		return nil, domain.Invalid("%s exceeds the %d MB limit", f.Name, s.maxSize>>20)
	}
	data, err := io.ReadAll(io.LimitReader(f.Content, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, domain.Invalid("%s exceeds the %d MB limit", f.Name, s.maxSize>>20)
	}
	if len(data) == 0 {
		return nil, domain.Invalid("%s is empty", f.Name)
	}

	mt := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mt.String()]
	if !ok {
		return nil, domain.Invalid("%s: only JPEG, PNG, WebP and GIF images are allowed", f.Name)
	}
	return &bufferedFile{name: path.Base(f.Name), mimeType: mt.String(), ext: ext, data: data}, nil
}

func (s *UploadService) store(ctx context.Context, folder string, b *bufferedFile) (*ports.StoredFile, error) {
	filename := uuid.NewString() + b.ext
	stored, err := s.storage.Save(ctx, folder, filename, bytes.NewReader(b.data))
	if err != nil {
		s.logger.Error().Err(err).Str("original", b.name).Msg("Failed to store upload")
		return nil, err
	}
	stored.MimeType = b.mimeType
	if stored.Size == 0 {
		stored.Size = int64(len(b.data))
	}
	s.logger.Info().Str("filename", stored.Filename).Str("mimeType", b.mimeType).Int64("size", stored.Size).Msg("Upload stored")
	return stored, nil
}
