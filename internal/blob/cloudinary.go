// Package blob uploads job photos to the image host and hands back
// their durable public URLs.
package blob

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Config holds image-hosting credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryStore uploads staged files to Cloudinary.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
	logger *slog.Logger
}

func NewCloudinaryStore(cfg *Config, logger *slog.Logger) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	logger.Info("Cloudinary client initialized",
		slog.String("cloud_name", cfg.CloudName),
		slog.String("folder", cfg.Folder),
	)

	return &CloudinaryStore{
		client: client,
		folder: cfg.Folder,
		logger: logger,
	}, nil
}

// Upload sends the staged file and returns its secure URL. There is no
// retry: a failed upload surfaces to the caller as-is.
func (s *CloudinaryStore) Upload(ctx context.Context, path string) (string, error) {
	result, err := s.client.Upload.Upload(ctx, path, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}

	s.logger.Info("Image uploaded",
		slog.String("public_id", result.PublicID),
		slog.Int("bytes", result.Bytes),
	)

	return result.SecureURL, nil
}
