package feed

import (
	"context"
	"fmt"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

// ToggleLike переключает лайк видео с индексом index и обновляет его счётчик.
// Без пользователя (Options.UserID == uuid.Nil) вызов пропускается молча:
// возвращается текущее состояние без ошибки.
func (c *Controller) ToggleLike(ctx context.Context, index int) (models.LikeState, error) {
	const op = "feed/likes/ToggleLike"

	v, err := c.itemAt(index)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.opts.UserID == uuid.Nil || c.likes == nil {
		c.lg.Debug("feed_like_skipped", "video_id", v.ID.String())
		return models.LikeState{Count: v.LikesCount}, nil
	}

	st, err := c.likes.ToggleLike(ctx, v.ID, c.opts.UserID)
	if err != nil {
		c.lg.Warn("feed_like_toggle_failed", "video_id", v.ID.String(), "err", err)
		return models.LikeState{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	if !c.done() && index < len(c.items) && c.items[index].ID == v.ID {
		c.items[index].LikesCount = st.Count
	}
	c.mu.Unlock()

	return st, nil
}

// LikeState возвращает отметку пользователя и текущий счётчик элемента.
func (c *Controller) LikeState(ctx context.Context, index int) (models.LikeState, error) {
	const op = "feed/likes/LikeState"

	v, err := c.itemAt(index)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, err)
	}

	st := models.LikeState{Count: v.LikesCount}

	if c.opts.UserID == uuid.Nil || c.likes == nil {
		return st, nil
	}

	liked, err := c.likes.IsLiked(ctx, v.ID, c.opts.UserID)
	if err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, err)
	}
	st.Liked = liked

	return st, nil
}

func (c *Controller) itemAt(index int) (models.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return models.Video{}, ErrClosed
	}

	if index < 0 || index >= len(c.items) {
		return models.Video{}, ErrIndexOutOfRange
	}

	return c.items[index], nil
}
