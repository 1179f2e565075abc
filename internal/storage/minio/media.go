package minio

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
)

// contentTypeExt — расширение ключа по MIME-типу.
var contentTypeExt = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

func (s *MediaStorage) limits(kind storage.MediaKind) (config.MediaLimits, bool) {
	switch kind {
	case storage.MediaVideo:
		return s.cfg.Media.Video, true
	case storage.MediaThumbnail:
		return s.cfg.Media.Thumbnail, true
	case storage.MediaAvatar:
		return s.cfg.Media.Avatar, true
	default:
		return config.MediaLimits{}, false
	}
}

// objectKey формирует ключ объекта:
//
//	videos/<userID>/<unixms>_<rand>.<ext>
//	thumbnails/<userID>/<videoID>_thumb.jpg
//	avatars/<userID>/<uuid>.<ext>
func objectKey(req storage.UploadRequest, t time.Time) (string, error) {
	ext := contentTypeExt[req.ContentType]
	owner := req.UserID.String()

	switch req.Kind {
	case storage.MediaVideo:
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}
		name := fmt.Sprintf("%d_%s%s", t.UnixMilli(), hex.EncodeToString(b[:]), ext)
		return path.Join(string(storage.MediaVideo), owner, name), nil
	case storage.MediaThumbnail:
		return path.Join(string(storage.MediaThumbnail), owner, req.VideoID.String()+"_thumb.jpg"), nil
	default:
		return path.Join(string(storage.MediaAvatar), owner, uuid.NewString()+ext), nil
	}
}

// UploadURL генерирует presigned PUT URL для загрузки объекта вида req.Kind.
// Валидирует тип и размер по лимитам вида и возвращает заголовки,
// которые клиент должен передать при PUT.
func (s *MediaStorage) UploadURL(ctx context.Context, req storage.UploadRequest) (*storage.UploadInfo, error) {
	const op = "storage/minio/media/UploadURL"

	lim, ok := s.limits(req.Kind)
	if !ok {
		return nil, storage.ErrInvalidArgument
	}

	if req.UserID == uuid.Nil {
		return nil, storage.ErrInvalidArgument
	}

	if req.Kind == storage.MediaThumbnail && req.VideoID == uuid.Nil {
		return nil, storage.ErrInvalidArgument
	}

	if req.ContentLength <= 0 || req.ContentLength > lim.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !isAllowedContentType(lim.AllowedContentTypes, req.ContentType) {
		return nil, storage.ErrInvalidArgument
	}

	key, err := objectKey(req, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.client.PresignedPutObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		Key:       key,
		Expires:   s.cfg.S3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   req.ContentType,
			"Content-Length": fmt.Sprintf("%d", req.ContentLength),
		},
	}, nil
}

// CheckUpload подтверждает загрузку по key: префикс владельца, наличие,
// размер и тип. Возвращает публичный URL (пустой, если PublicBaseURL не задан).
func (s *MediaStorage) CheckUpload(ctx context.Context, kind storage.MediaKind, userID uuid.UUID, key string) (string, error) {
	const op = "storage/minio/media/CheckUpload"

	lim, ok := s.limits(kind)
	if !ok {
		return "", storage.ErrInvalidArgument
	}

	prefix := string(kind) + "/" + userID.String() + "/"
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return "", storage.ErrInvalidArgument
	}

	info, err := s.client.StatObject(ctx, s.cfg.S3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return "", storage.ErrNotFoundObject
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > lim.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := info.ContentType; ct != "" && !isAllowedContentType(lim.AllowedContentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	return s.PublicURL(key), nil
}

// PublicURL строит публичную ссылку на объект по PublicBaseURL.
func (s *MediaStorage) PublicURL(key string) string {
	if s.cfg.S3.PublicBaseURL == "" {
		return ""
	}

	return strings.TrimRight(s.cfg.S3.PublicBaseURL, "/") + "/" + key
}

// RemoveObject удаляет объект. Отсутствующий объект ошибкой не считается.
func (s *MediaStorage) RemoveObject(ctx context.Context, key string) error {
	const op = "storage/minio/media/RemoveObject"

	if key == "" {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.cfg.S3.Bucket, key, mclient.RemoveObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
