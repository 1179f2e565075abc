package service

import (
	"context"
	"errors"
	"testing"

	"github.com/RickkCastro/ElasNoJogo/internal/metrics"
	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLikeState(t *testing.T) {
	svc, m := newSvc(t)

	vid, uid := uuid.New(), uuid.New()

	// Анонимный пользователь: IsLiked не вызывается.
	m.st.EXPECT().VideoByID(gomock.Any(), vid).Return(&models.Video{ID: vid, LikesCount: 7}, nil)
	st, err := svc.LikeState(context.Background(), vid, uuid.Nil)
	require.NoError(t, err)
	require.Equal(t, models.LikeState{Liked: false, Count: 7}, st)

	m.st.EXPECT().VideoByID(gomock.Any(), vid).Return(&models.Video{ID: vid, LikesCount: 7}, nil)
	m.st.EXPECT().IsLiked(gomock.Any(), vid, uid).Return(true, nil)
	st, err = svc.LikeState(context.Background(), vid, uid)
	require.NoError(t, err)
	require.True(t, st.Liked)

	m.st.EXPECT().VideoByID(gomock.Any(), vid).Return(nil, storage.ErrNotFound)
	_, err = svc.LikeState(context.Background(), vid, uid)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleLike_RecordsMetrics(t *testing.T) {
	svc, m := newSvc(t)

	reg := prometheus.NewRegistry()
	svc.SetMetrics(metrics.New(reg))

	vid, uid := uuid.New(), uuid.New()

	_, err := svc.ToggleLike(context.Background(), vid, uuid.Nil)
	require.ErrorIs(t, err, ErrUnauthenticated)

	gomock.InOrder(
		m.st.EXPECT().ToggleLike(gomock.Any(), vid, uid).Return(models.LikeState{Liked: true, Count: 1}, nil),
		m.st.EXPECT().ToggleLike(gomock.Any(), vid, uid).Return(models.LikeState{Liked: false, Count: 0}, nil),
	)

	st, err := svc.ToggleLike(context.Background(), vid, uid)
	require.NoError(t, err)
	require.True(t, st.Liked)

	st, err = svc.ToggleLike(context.Background(), vid, uid)
	require.NoError(t, err)
	require.False(t, st.Liked)
	require.EqualValues(t, 0, st.Count)

	n, err := testutil.GatherAndCount(reg, "elas_videos_like_toggles_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestFollow_Rules(t *testing.T) {
	svc, m := newSvc(t)

	a, b := uuid.New(), uuid.New()

	require.ErrorIs(t, svc.Follow(context.Background(), uuid.Nil, b), ErrUnauthenticated)
	require.ErrorIs(t, svc.Follow(context.Background(), a, a), ErrInvalidArgument)
	require.ErrorIs(t, svc.Unfollow(context.Background(), a, uuid.Nil), ErrInvalidArgument)

	// Повторная подписка идемпотентна.
	m.st.EXPECT().Follow(gomock.Any(), a, b).Return(storage.ErrAlreadyExists)
	require.NoError(t, svc.Follow(context.Background(), a, b))

	m.st.EXPECT().Follow(gomock.Any(), a, b).Return(storage.ErrNotFound)
	require.ErrorIs(t, svc.Follow(context.Background(), a, b), ErrNotFound)

	m.st.EXPECT().Unfollow(gomock.Any(), a, b).Return(false, nil)
	require.NoError(t, svc.Unfollow(context.Background(), a, b))
}

func TestToggleFollow(t *testing.T) {
	svc, m := newSvc(t)

	a, b := uuid.New(), uuid.New()

	// Не был подписан -> подписка.
	m.st.EXPECT().Unfollow(gomock.Any(), a, b).Return(false, nil)
	m.st.EXPECT().Follow(gomock.Any(), a, b).Return(nil)
	m.st.EXPECT().FollowCounts(gomock.Any(), b).Return(int64(1), int64(0), nil)
	m.st.EXPECT().IsFollowing(gomock.Any(), a, b).Return(true, nil)

	stats, err := svc.ToggleFollow(context.Background(), a, b)
	require.NoError(t, err)
	require.Equal(t, &models.FollowStats{Followers: 1, Following: 0, IsFollowing: true}, stats)

	// Был подписан -> отписка.
	m.st.EXPECT().Unfollow(gomock.Any(), a, b).Return(true, nil)
	m.st.EXPECT().FollowCounts(gomock.Any(), b).Return(int64(0), int64(0), nil)
	m.st.EXPECT().IsFollowing(gomock.Any(), a, b).Return(false, nil)

	stats, err = svc.ToggleFollow(context.Background(), a, b)
	require.NoError(t, err)
	require.False(t, stats.IsFollowing)

	m.st.EXPECT().Unfollow(gomock.Any(), a, b).Return(false, errors.New("pg down"))
	_, err = svc.ToggleFollow(context.Background(), a, b)
	require.ErrorIs(t, err, ErrInternal)
}

func TestFollowStats_SelfAndAnonymous(t *testing.T) {
	svc, m := newSvc(t)

	target := uuid.New()

	_, err := svc.FollowStats(context.Background(), uuid.New(), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// IsFollowing не вызывается ни для анонима, ни для самого себя.
	m.st.EXPECT().FollowCounts(gomock.Any(), target).Return(int64(3), int64(4), nil).Times(2)

	stats, err := svc.FollowStats(context.Background(), uuid.Nil, target)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.Followers)
	require.EqualValues(t, 4, stats.Following)

	stats, err = svc.FollowStats(context.Background(), target, target)
	require.NoError(t, err)
	require.False(t, stats.IsFollowing)
}

func TestFollowersAndFollowing(t *testing.T) {
	svc, m := newSvc(t)

	uid := uuid.New()
	entries := []models.FollowEntry{{Author: models.Author{ID: uuid.New(), Username: "marta"}}}

	_, err := svc.Followers(context.Background(), uuid.Nil, models.ListOptions{})
	require.ErrorIs(t, err, ErrInvalidArgument)

	m.st.EXPECT().Followers(gomock.Any(), uid, models.ListOptions{Page: 0, PageSize: 10}).Return(entries, nil)
	got, err := svc.Followers(context.Background(), uid, models.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, entries, got)

	m.st.EXPECT().Following(gomock.Any(), uid, gomock.Any()).Return(nil, errors.New("pg down"))
	_, err = svc.Following(context.Background(), uid, models.ListOptions{})
	require.ErrorIs(t, err, ErrInternal)
}
