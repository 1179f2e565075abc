package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// videoColumns — колонки видео (алиас v) и карточки автора (алиас p).
// Все выборки и CTE с RETURNING приводятся к этому порядку для scanVideo.
const videoColumns = `
v.id, v.user_id, v.title, v.description, v.location,
v.video_key, v.video_url, v.thumbnail_key, v.thumbnail_url,
v.duration_seconds, v.views_count, v.likes_count, v.created_at, v.updated_at,
COALESCE(p.username, ''), COALESCE(p.full_name, ''), COALESCE(p.avatar_url, '')
`

const videoOrder = ` ORDER BY v.created_at DESC, v.id DESC `

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video

	if err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.Title,
		&v.Description,
		&v.Location,
		&v.VideoKey,
		&v.VideoURL,
		&v.ThumbnailKey,
		&v.ThumbnailURL,
		&v.DurationSeconds,
		&v.ViewsCount,
		&v.LikesCount,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Author.Username,
		&v.Author.FullName,
		&v.Author.AvatarURL,
	); err != nil {
		return nil, err
	}

	v.Author.ID = v.UserID

	return &v, nil
}

func scanVideos(rows pgx.Rows, capacity int) ([]models.Video, error) {
	defer rows.Close()

	out := make([]models.Video, 0, capacity)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}

	return out, rows.Err()
}

// CreateVideo вставляет видео и возвращает его вместе с карточкой автора.
// Ошибки: ErrAlreadyExists — повтор id; ErrNotFound — нет профиля автора.
func (s *Storage) CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	const op = "storage/postgres/videos/CreateVideo"

	q := `
	WITH v AS (
		INSERT INTO videos (id, user_id, title, description, location, video_key, video_url,
			thumbnail_key, thumbnail_url, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	)
	SELECT ` + videoColumns + ` FROM v LEFT JOIN profiles p ON p.user_id = v.user_id`

	row := s.db.QueryRow(ctx, q,
		video.ID,
		video.UserID,
		video.Title,
		video.Description,
		video.Location,
		video.VideoKey,
		video.VideoURL,
		video.ThumbnailKey,
		video.ThumbnailURL,
		video.DurationSeconds,
	)

	result, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// VideoByID возвращает видео по id.
func (s *Storage) VideoByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	const op = "storage/postgres/videos/VideoByID"

	q := `SELECT ` + videoColumns + ` FROM videos v LEFT JOIN profiles p ON p.user_id = v.user_id WHERE v.id = $1`

	result, err := scanVideo(s.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// ListVideos — глобальная лента, новые первыми.
func (s *Storage) ListVideos(ctx context.Context, opts models.ListOptions) ([]models.Video, error) {
	const op = "storage/postgres/videos/ListVideos"

	q := `SELECT ` + videoColumns + ` FROM videos v LEFT JOIN profiles p ON p.user_id = v.user_id` +
		videoOrder + `LIMIT $1 OFFSET $2`

	return s.queryVideos(ctx, op, opts.PageSize, q, opts.PageSize, opts.Offset())
}

// ListUserVideos — видео одного автора, новые первыми.
func (s *Storage) ListUserVideos(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.Video, error) {
	const op = "storage/postgres/videos/ListUserVideos"

	q := `SELECT ` + videoColumns + ` FROM videos v LEFT JOIN profiles p ON p.user_id = v.user_id
	WHERE v.user_id = $1` + videoOrder + `LIMIT $2 OFFSET $3`

	return s.queryVideos(ctx, op, opts.PageSize, q, userID, opts.PageSize, opts.Offset())
}

// ListFollowingVideos — видео авторов, на которых подписан followerID.
func (s *Storage) ListFollowingVideos(ctx context.Context, followerID uuid.UUID, opts models.ListOptions) ([]models.Video, error) {
	const op = "storage/postgres/videos/ListFollowingVideos"

	q := `SELECT ` + videoColumns + ` FROM videos v LEFT JOIN profiles p ON p.user_id = v.user_id
	WHERE v.user_id IN (SELECT following_id FROM followers WHERE follower_id = $1)` +
		videoOrder + `LIMIT $2 OFFSET $3`

	return s.queryVideos(ctx, op, opts.PageSize, q, followerID, opts.PageSize, opts.Offset())
}

func (s *Storage) queryVideos(ctx context.Context, op string, capacity int, q string, args ...any) ([]models.Video, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := scanVideos(rows, capacity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateVideo обновляет title/description/location (только непустые указатели).
func (s *Storage) UpdateVideo(ctx context.Context, id uuid.UUID, update storage.VideoUpdate) (*models.Video, error) {
	const op = "storage/postgres/videos/UpdateVideo"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 4)

	add := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}

	if update.Description != nil {
		add("description", *update.Description)
	}

	if update.Location != nil {
		add("location", *update.Location)
	}

	args = append(args, id)

	q := fmt.Sprintf(`
	WITH v AS (
		UPDATE videos SET %s WHERE id = $%d RETURNING *
	)
	SELECT %s FROM v LEFT JOIN profiles p ON p.user_id = v.user_id`,
		strings.Join(sets, ", "), len(args), videoColumns)

	result, err := scanVideo(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// DeleteVideo удаляет видео (лайки удаляются каскадно) и возвращает удалённую запись.
func (s *Storage) DeleteVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	const op = "storage/postgres/videos/DeleteVideo"

	q := `
	WITH v AS (
		DELETE FROM videos WHERE id = $1 RETURNING *
	)
	SELECT ` + videoColumns + ` FROM v LEFT JOIN profiles p ON p.user_id = v.user_id`

	result, err := scanVideo(s.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// IncrementViews увеличивает views_count на 1 и возвращает новое значение.
func (s *Storage) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	const op = "storage/postgres/videos/IncrementViews"

	var views int64
	err := s.db.QueryRow(ctx,
		`UPDATE videos SET views_count = views_count + 1 WHERE id = $1 RETURNING views_count`, id,
	).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return views, nil
}
