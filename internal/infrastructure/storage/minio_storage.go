// Package storage almacenamiento de objetos (avatares) sobre MinIO / S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

var _ ports.AvatarStorage = (*MinioStorage)(nil)

// MinioStorage sube objetos a un bucket y arma la URL pública.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logger.Logger
}

// NewMinioStorage crea el cliente y asegura que el bucket exista.
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket exists %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket de avatares creado")
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, publicURL: publicURL, log: log}, nil
}

// UploadAvatar guarda la imagen bajo avatars/<cuenta>/<uuid><ext>.
func (s *MinioStorage) UploadAvatar(ctx context.Context, accountID, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := AvatarKey(accountID, filename)
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	s.log.Debug().Str("key", info.Key).Int64("size", info.Size).Msg("avatar subido")
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

// AvatarKey nombre único del objeto conservando la extensión original.
func AvatarKey(accountID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("avatars/%s/%s%s", accountID, uuid.New().String(), ext)
}
