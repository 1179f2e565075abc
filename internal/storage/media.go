package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MediaKind — вид загружаемого объекта. Определяет префикс ключа и ограничения.
type MediaKind string

const (
	MediaVideo     MediaKind = "videos"
	MediaThumbnail MediaKind = "thumbnails"
	MediaAvatar    MediaKind = "avatars"
)

// UploadRequest — параметры presigned-загрузки.
// VideoID обязателен для MediaThumbnail: превью адресуется по видео.
type UploadRequest struct {
	Kind          MediaKind
	UserID        uuid.UUID
	VideoID       uuid.UUID
	ContentType   string
	ContentLength int64
}

// UploadInfo — информация для клиента о presigned PUT загрузке.
//   - UploadURL: конечная URL для PUT-запроса;
//   - Key: ключ будущего объекта в бакете;
//   - Expires: время жизни подписи;
//   - RequiredHeader: заголовки, которые клиент ОБЯЗАН передать при PUT.
type UploadInfo struct {
	UploadURL      string
	Key            string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// MediaStorage — генерация presigned URL, подтверждение загрузки и удаление объектов.
type MediaStorage interface {
	// UploadURL валидирует тип/размер и выдаёт presigned PUT.
	UploadURL(ctx context.Context, req UploadRequest) (*UploadInfo, error)
	// CheckUpload проверяет объект по key (принадлежность userID, наличие, тип, размер)
	// и возвращает публичный URL (пустой, если PublicBaseURL не задан).
	CheckUpload(ctx context.Context, kind MediaKind, userID uuid.UUID, key string) (publicURL string, err error)
	// RemoveObject удаляет объект; отсутствие объекта ошибкой не считается.
	RemoveObject(ctx context.Context, key string) error
}
