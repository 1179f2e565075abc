// minio предоставляет реализацию storage.MediaStorage на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint,
// настраивает Secure/creds и проверяет наличие бакета.
// media.go — presigned PUT, подтверждение загрузки и удаление объектов
// для видео, превью и аватаров (один бакет, разные префиксы ключей).
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStorage — адаптер MinIO для медиа-объектов.
type MediaStorage struct {
	cfg    *config.Config
	client *mclient.Client
}

// New создает клиент MinIO и выполняет fail-fast-проверку бакета.
func New(ctx context.Context, cfg *config.Config) (*MediaStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.S3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &MediaStorage{cfg: cfg, client: client}, nil
}

// Ping проверяет доступность бакета (readiness).
func (s *MediaStorage) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.cfg.S3.Bucket)
	return err
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
