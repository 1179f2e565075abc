package postgres

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Follow создаёт подписку followerID -> followingID.
func (s *Storage) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	const op = "storage/postgres/follows/Follow"

	_, err := s.db.Exec(ctx,
		`INSERT INTO followers (id, follower_id, following_id) VALUES ($1, $2, $3)`,
		uuid.New(), followerID, followingID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return nil
}

// Unfollow удаляет подписку; false — подписки не было.
func (s *Storage) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	const op = "storage/postgres/follows/Unfollow"

	tag, err := s.db.Exec(ctx,
		`DELETE FROM followers WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

// IsFollowing сообщает, подписан ли followerID на followingID.
func (s *Storage) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	const op = "storage/postgres/follows/IsFollowing"

	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// Followers возвращает профили, подписанные на userID.
func (s *Storage) Followers(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error) {
	const op = "storage/postgres/follows/Followers"

	q := `
	SELECT p.user_id, p.username, p.full_name, p.avatar_url, f.created_at
	FROM followers f
	JOIN profiles p ON p.user_id = f.follower_id
	WHERE f.following_id = $1
	ORDER BY f.created_at DESC, f.id DESC
	LIMIT $2 OFFSET $3
	`

	return s.queryFollowEntries(ctx, op, q, userID, opts)
}

// Following возвращает профили, на которые подписан userID.
func (s *Storage) Following(ctx context.Context, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error) {
	const op = "storage/postgres/follows/Following"

	q := `
	SELECT p.user_id, p.username, p.full_name, p.avatar_url, f.created_at
	FROM followers f
	JOIN profiles p ON p.user_id = f.following_id
	WHERE f.follower_id = $1
	ORDER BY f.created_at DESC, f.id DESC
	LIMIT $2 OFFSET $3
	`

	return s.queryFollowEntries(ctx, op, q, userID, opts)
}

func (s *Storage) queryFollowEntries(ctx context.Context, op, q string, userID uuid.UUID, opts models.ListOptions) ([]models.FollowEntry, error) {
	rows, err := s.db.Query(ctx, q, userID, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FollowEntry, error) {
		var e models.FollowEntry
		err := row.Scan(&e.Author.ID, &e.Author.Username, &e.Author.FullName, &e.Author.AvatarURL, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// FollowCounts возвращает число подписчиков и подписок userID.
func (s *Storage) FollowCounts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	const op = "storage/postgres/follows/FollowCounts"

	var followers, following int64
	err := s.db.QueryRow(ctx, `
	SELECT
		(SELECT count(*) FROM followers WHERE following_id = $1),
		(SELECT count(*) FROM followers WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	return followers, following, nil
}
