package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

// MediaInput — тип и размер файла, который клиент собирается загрузить.
type MediaInput struct {
	ContentType   string
	ContentLength int64
}

type PresignVideoInput struct {
	UserID    uuid.UUID
	Video     MediaInput
	Thumbnail *MediaInput
}

// VideoUpload — заранее выделенный id видео и presigned-ссылки на загрузку.
type VideoUpload struct {
	VideoID   uuid.UUID
	Video     *storage.UploadInfo
	Thumbnail *storage.UploadInfo
}

type CreateVideoInput struct {
	UserID          uuid.UUID
	VideoID         uuid.UUID
	VideoKey        string
	ThumbnailKey    string
	Title           string
	Description     string
	Location        string
	DurationSeconds int
}

type UpdateVideoInput struct {
	VideoID     uuid.UUID
	UserID      uuid.UUID
	Title       *string
	Description *string
	Location    *string
}

// PresignVideoUpload выдаёт presigned PUT для видео и (опционально) превью.
// Превью адресуется по id будущего видео, поэтому id выделяется здесь.
func (s *Service) PresignVideoUpload(ctx context.Context, input PresignVideoInput) (*VideoUpload, error) {
	const op = "service/videos/PresignVideoUpload"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result := &VideoUpload{VideoID: uuid.New()}

	info, err := s.media.UploadURL(ctx, storage.UploadRequest{
		Kind:          storage.MediaVideo,
		UserID:        input.UserID,
		ContentType:   input.Video.ContentType,
		ContentLength: input.Video.ContentLength,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "UploadURL(video)", err))
	}
	result.Video = info

	if input.Thumbnail != nil {
		info, err := s.media.UploadURL(ctx, storage.UploadRequest{
			Kind:          storage.MediaThumbnail,
			UserID:        input.UserID,
			VideoID:       result.VideoID,
			ContentType:   input.Thumbnail.ContentType,
			ContentLength: input.Thumbnail.ContentLength,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "UploadURL(thumbnail)", err))
		}
		result.Thumbnail = info
	}

	return result, nil
}

// CreateVideo подтверждает загрузку и создаёт запись видео.
//
// Видео-объект обязан существовать и пройти лимиты; превью необязательно:
// если его не удалось подтвердить, видео публикуется без постера.
// Ошибки: ErrInvalidArgument, ErrVideoTooLong (длительность больше лимита),
// ErrNotFound (объекта или профиля автора нет), ErrAlreadyExists (повтор id), ErrInternal.
func (s *Service) CreateVideo(ctx context.Context, input CreateVideoInput) (*models.Video, error) {
	const op = "service/videos/CreateVideo"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String(), "video_key", input.VideoKey)

	if input.UserID == uuid.Nil || strings.TrimSpace(input.VideoKey) == "" || input.DurationSeconds <= 0 {
		lg.Warn("invalid argument for create", "duration", input.DurationSeconds)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if input.DurationSeconds > s.cfg.Media.MaxDurationSeconds {
		lg.Warn("video too long", "duration", input.DurationSeconds, "max", s.cfg.Media.MaxDurationSeconds)
		return nil, fmt.Errorf("%s: %w", op, ErrVideoTooLong)
	}

	if input.VideoID == uuid.Nil {
		input.VideoID = uuid.New()
	}

	videoURL, err := s.media.CheckUpload(ctx, storage.MediaVideo, input.UserID, input.VideoKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "CheckUpload(video)", err))
	}

	var thumbKey, thumbURL string
	if key := strings.TrimSpace(input.ThumbnailKey); key != "" {
		u, err := s.media.CheckUpload(ctx, storage.MediaThumbnail, input.UserID, key)
		if err != nil {
			lg.Warn("thumbnail not confirmed, publishing without poster", "thumbnail_key", key, "err", err)
		} else {
			thumbKey, thumbURL = key, u
		}
	}

	title := normalizeText(input.Title)
	if title == "" {
		title = models.DefaultVideoTitle
	}

	video := &models.Video{
		ID:              input.VideoID,
		UserID:          input.UserID,
		Title:           title,
		Description:     normalizeText(input.Description),
		Location:        normalizeText(input.Location),
		VideoKey:        input.VideoKey,
		VideoURL:        videoURL,
		ThumbnailKey:    thumbKey,
		ThumbnailURL:    thumbURL,
		DurationSeconds: input.DurationSeconds,
	}

	result, err := s.storage.CreateVideo(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "CreateVideo", err))
	}

	s.metrics.UploadConfirmed(string(storage.MediaVideo))
	if thumbKey != "" {
		s.metrics.UploadConfirmed(string(storage.MediaThumbnail))
	}

	lg.Info("video created", "video_id", result.ID.String())

	return result, nil
}

// VideoByID возвращает видео с карточкой автора.
func (s *Service) VideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	const op = "service/videos/VideoByID"

	lg := log.From(ctx).With("op", op, "video_id", videoID.String())

	if videoID == uuid.Nil {
		lg.Warn("invalid argument: empty video_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	v, err := s.storage.VideoByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "VideoByID", err))
	}

	return v, nil
}

// ListVideos — глобальная лента, новые первыми.
func (s *Service) ListVideos(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	const op = "service/videos/ListVideos"

	lg := log.From(ctx).With("op", op)

	opts = s.normalizeListOptions(opts)

	items, err := s.storage.ListVideos(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ListVideos", err))
	}

	return newPage(items, opts), nil
}

// ListFollowingVideos — видео авторов, на которых подписан userID.
// Пустая страница, если пользователь ни на кого не подписан.
func (s *Service) ListFollowingVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (*models.Page, error) {
	const op = "service/videos/ListFollowingVideos"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("unauthenticated following feed")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	opts = s.normalizeListOptions(opts)

	items, err := s.storage.ListFollowingVideos(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ListFollowingVideos", err))
	}

	return newPage(items, opts), nil
}

// ListUserVideos — видео одного автора.
func (s *Service) ListUserVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) (*models.Page, error) {
	const op = "service/videos/ListUserVideos"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	opts = s.normalizeListOptions(opts)

	items, err := s.storage.ListUserVideos(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ListUserVideos", err))
	}

	return newPage(items, opts), nil
}

// newPage собирает страницу: HasMore, если страница заполнена целиком.
func newPage(items []models.Video, opts models.ListOptions) *models.Page {
	if items == nil {
		items = []models.Video{}
	}

	return &models.Page{
		Items:    items,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		HasMore:  len(items) == opts.PageSize,
	}
}

// ownedVideo загружает видео и проверяет, что им владеет userID.
func (s *Service) ownedVideo(ctx context.Context, videoID, userID uuid.UUID) (*models.Video, error) {
	lg := log.From(ctx).With("video_id", videoID.String(), "user_id", userID.String())

	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	if videoID == uuid.Nil {
		return nil, ErrInvalidArgument
	}

	v, err := s.storage.VideoByID(ctx, videoID)
	if err != nil {
		return nil, storageErr(lg, "VideoByID", err)
	}

	if v.UserID != userID {
		lg.Warn("forbidden: not the owner")
		return nil, ErrForbidden
	}

	return v, nil
}

// UpdateVideo обновляет title/description/location. Только владелец.
// Пустой title заменяется на заголовок по умолчанию.
func (s *Service) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*models.Video, error) {
	const op = "service/videos/UpdateVideo"

	lg := log.From(ctx).With("op", op, "video_id", input.VideoID.String())

	if _, err := s.ownedVideo(ctx, input.VideoID, input.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upd := storage.VideoUpdate{}

	if input.Title != nil {
		val := normalizeText(*input.Title)
		if val == "" {
			val = models.DefaultVideoTitle
		}
		upd.Title = &val
	}

	if input.Description != nil {
		val := normalizeText(*input.Description)
		upd.Description = &val
	}

	if input.Location != nil {
		val := normalizeText(*input.Location)
		upd.Location = &val
	}

	v, err := s.storage.UpdateVideo(ctx, input.VideoID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "UpdateVideo", err))
	}

	return v, nil
}

// DeleteVideo удаляет видео владельца, затем best-effort удаляет объекты из бакета.
func (s *Service) DeleteVideo(ctx context.Context, videoID, userID uuid.UUID) error {
	const op = "service/videos/DeleteVideo"

	lg := log.From(ctx).With("op", op, "video_id", videoID.String(), "user_id", userID.String())

	if _, err := s.ownedVideo(ctx, videoID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := s.storage.DeleteVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, storageErr(lg, "DeleteVideo", err))
	}

	for _, key := range []string{deleted.VideoKey, deleted.ThumbnailKey} {
		if key == "" {
			continue
		}

		if err := s.media.RemoveObject(ctx, key); err != nil {
			lg.Warn("object removal failed", "key", key, "err", err)
		}
	}

	lg.Info("video deleted")

	return nil
}

// IncrementViews засчитывает просмотр и возвращает новое значение счётчика.
// Анонимные просмотры допустимы.
func (s *Service) IncrementViews(ctx context.Context, videoID uuid.UUID) (int64, error) {
	const op = "service/videos/IncrementViews"

	lg := log.From(ctx).With("op", op, "video_id", videoID.String())

	if videoID == uuid.Nil {
		lg.Warn("invalid argument: empty video_id")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	views, err := s.storage.IncrementViews(ctx, videoID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, storageErr(lg, "IncrementViews", err))
	}

	s.metrics.ViewCounted()

	return views, nil
}
