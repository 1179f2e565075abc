package postgres

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IsLiked сообщает, лайкнул ли userID видео.
func (s *Storage) IsLiked(ctx context.Context, videoID, userID uuid.UUID) (bool, error) {
	const op = "storage/postgres/likes/IsLiked"

	var liked bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM video_likes WHERE video_id = $1 AND user_id = $2)`,
		videoID, userID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return liked, nil
}

// ToggleLike переключает лайк и синхронно правит likes_count.
//
// Строка видео блокируется FOR UPDATE, поэтому параллельные переключения
// одного видео сериализуются и счётчик не расходится с video_likes.
// Ошибки: storage.ErrNotFound — видео нет.
func (s *Storage) ToggleLike(ctx context.Context, videoID, userID uuid.UUID) (models.LikeState, error) {
	const op = "storage/postgres/likes/ToggleLike"

	var state models.LikeState

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var count int64
		if err := tx.QueryRow(ctx,
			`SELECT likes_count FROM videos WHERE id = $1 FOR UPDATE`, videoID,
		).Scan(&count); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM video_likes WHERE video_id = $1 AND user_id = $2`, videoID, userID)
		if err != nil {
			return err
		}

		delta := -1
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO video_likes (video_id, user_id) VALUES ($1, $2)`, videoID, userID,
			); err != nil {
				return err
			}
			delta = 1
		}

		if err := tx.QueryRow(ctx,
			`UPDATE videos SET likes_count = GREATEST(likes_count + $2, 0) WHERE id = $1 RETURNING likes_count`,
			videoID, delta,
		).Scan(&count); err != nil {
			return err
		}

		state = models.LikeState{Liked: delta > 0, Count: count}
		return nil
	})
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return state, nil
}
