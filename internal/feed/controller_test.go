package feed

// Тесты контроллера ленты.
//
//  Проверяем:
//  - не больше одного слота играет со звуком при любых последовательностях видимости;
//  - hasMore/пагинация: страница после короткой не запрашивается;
//  - дедупликация по id между страницами;
//  - нет двух одновременных загрузок;
//  - триггер near-end, учёт просмотров по сессиям, лайки, автоплей без звука;
//  - Close делает продолжения загрузок no-op.
//
// Запуск:
//   go test ./internal/feed -v -race -count=1

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, src VideoSource, opts Options) *Controller {
	t.Helper()

	c := New(context.Background(), src, nil, nil, opts)
	t.Cleanup(c.Close)

	return c
}

func attachAll(c *Controller, st *stage, n int) {
	for i := 0; i < n; i++ {
		c.Attach(i, st.handle(i))
	}
}

func TestController_SingleAudibleItem(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 6)}}
	c := newController(t, src, Options{PageSize: 6, NearEndThreshold: 1})
	require.NoError(t, c.Initialize(context.Background()))

	st := newStage()
	attachAll(c, st, 6)

	// Один отклоняет звук, чтобы в последовательности была и деградация.
	st.handle(2).rejectUnmuted = -1

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 300; step++ {
		n := 1 + rng.Intn(3)
		batch := make([]VisibilityEntry, n)
		for i := range batch {
			batch[i] = VisibilityEntry{Index: rng.Intn(8) - 1, IsIntersecting: rng.Intn(4) != 0}
		}

		c.ReportVisible(batch...)
		if rng.Intn(10) == 0 {
			c.Interact()
		}

		require.LessOrEqual(t, st.audible(), 1)
	}

	c.Wait()
	require.Zero(t, st.violations)
}

func TestController_HasMoreStopsAfterShortPage(t *testing.T) {
	const size = 3

	src := &pageSource{pages: map[int][]models.Video{
		0: videos("p0", size),
		1: videos("p1", size),
		2: videos("p2", size),
		3: videos("p3", 1),
	}}
	c := newController(t, src, Options{PageSize: size, NearEndThreshold: 2})
	require.NoError(t, c.Initialize(context.Background()))
	require.True(t, c.Snapshot().HasMore)

	for idx := 0; idx < 3*size+1; idx++ {
		c.ReportVisible(visible(idx))
		c.Wait()

		s := c.Snapshot()
		if s.LoadedPage < 3 {
			require.True(t, s.HasMore, "hasMore must stay true before page 3, idx=%d", idx)
		}
	}

	s := c.Snapshot()
	require.False(t, s.HasMore)
	require.Equal(t, 3, s.LoadedPage)
	require.Len(t, s.Items, 3*size+1)
	require.Equal(t, []int{0, 1, 2, 3}, src.Calls())
	require.Equal(t, PhaseExhausted, s.Phase)
}

func TestController_DeduplicatesAcrossPages(t *testing.T) {
	p0 := videos("p0", 4)
	p1 := append([]models.Video{p0[2], p0[3]}, videos("p1", 2)...)

	src := &pageSource{pages: map[int][]models.Video{0: p0, 1: p1}}
	c := newController(t, src, Options{PageSize: 4, NearEndThreshold: 2})
	require.NoError(t, c.Initialize(context.Background()))

	c.ReportVisible(visible(2))
	c.Wait()

	s := c.Snapshot()
	require.Len(t, s.Items, 6)

	seen := make(map[uuid.UUID]bool)
	for _, v := range s.Items {
		require.False(t, seen[v.ID], "duplicate id %s", v.ID)
		seen[v.ID] = true
	}
	require.Equal(t, 1, s.LoadedPage)
}

func TestController_NoConcurrentFetches(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 5), 1: videos("p1", 5)}}
	c := newController(t, src, Options{PageSize: 5, NearEndThreshold: 3})
	require.NoError(t, c.Initialize(context.Background()))

	src.gate = make(chan struct{})

	c.ReportVisible(visible(2))
	require.Eventually(t, func() bool { return len(src.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	// Пока страница 1 в полёте, триггер и Retry не запускают вторую загрузку.
	c.ReportVisible(visible(3))
	c.ReportVisible(visible(4))
	require.ErrorIs(t, c.Retry(context.Background()), ErrBusy)
	require.ErrorIs(t, c.Initialize(context.Background()), ErrBusy)
	require.True(t, c.Snapshot().IsLoading)
	require.Equal(t, PhaseLoadingMore, c.Snapshot().Phase)

	close(src.gate)
	c.Wait()

	require.Zero(t, src.concurrent.Load())
	require.Equal(t, 1, c.Snapshot().LoadedPage)
}

func TestController_NearEndTriggersExactlyOneFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockVideoSource(ctrl)

	items := videos("p0", 5)

	gomock.InOrder(
		src.EXPECT().LoadPage(gomock.Any(), 0, 5).Return(&models.Page{Items: items}, nil),
		src.EXPECT().LoadPage(gomock.Any(), 1, 5).Return(&models.Page{Items: videos("p1", 2)}, nil).Times(1),
	)

	c := newController(t, src, Options{PageSize: 5, NearEndThreshold: 2})
	require.NoError(t, c.Initialize(context.Background()))

	// 2 < 5-2: ещё не конец.
	c.ReportVisible(visible(2))
	c.Wait()

	c.ReportVisible(visible(3))
	c.Wait()

	s := c.Snapshot()
	require.Len(t, s.Items, 7)
	require.False(t, s.HasMore)

	// hasMore=false: дальнейшие пересечения ничего не запрашивают.
	c.ReportVisible(visible(6))
	c.Wait()
}

func TestController_ViewCountedOncePerSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	views := mocks.NewMockViewCounter(ctrl)

	items := videos("p0", 2)
	src := &pageSource{pages: map[int][]models.Video{0: items}}

	views.EXPECT().IncrementViews(gomock.Any(), items[0].ID).Return(nil).Times(2)

	c := New(context.Background(), src, views, nil, Options{PageSize: 10})
	t.Cleanup(c.Close)
	require.NoError(t, c.Initialize(context.Background()))

	c.ReportVisible(visible(0))

	// Неактивный слот не считается.
	c.TimeUpdate(1, 9, 10)

	for sec := 0; sec <= 10; sec++ {
		c.TimeUpdate(0, float64(sec), 10)
	}
	c.Wait()
	require.EqualValues(t, 1, c.Snapshot().Items[0].ViewsCount)

	// Цикл: новая сессия.
	c.Ended(0)
	for sec := 0; sec <= 10; sec++ {
		c.TimeUpdate(0, float64(sec), 10)
	}
	c.Wait()
	require.EqualValues(t, 2, c.Snapshot().Items[0].ViewsCount)

	// Длительность неизвестна: деления на ноль нет, просмотр не засчитывается.
	c.Ended(0)
	c.TimeUpdate(0, 5, 0)
	c.Wait()
}

func TestController_ViewSessionResetsOnActivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	views := mocks.NewMockViewCounter(ctrl)

	items := videos("p0", 2)
	src := &pageSource{pages: map[int][]models.Video{0: items}}

	views.EXPECT().IncrementViews(gomock.Any(), items[0].ID).Return(errors.New("offline")).Times(2)

	c := New(context.Background(), src, views, nil, Options{PageSize: 10})
	t.Cleanup(c.Close)
	require.NoError(t, c.Initialize(context.Background()))

	c.ReportVisible(visible(0))
	c.TimeUpdate(0, 9, 10)
	c.ReportVisible(visible(1))
	c.ReportVisible(visible(0))
	c.TimeUpdate(0, 9, 10)
	c.Wait()

	// Ошибка отправки не откатывает оптимистичный счётчик.
	require.EqualValues(t, 2, c.Snapshot().Items[0].ViewsCount)
}

func TestController_ToggleLikeRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	likes := mocks.NewMockLikeStore(ctrl)

	user := uuid.New()
	items := videos("p0", 1)
	src := &pageSource{pages: map[int][]models.Video{0: items}}

	gomock.InOrder(
		likes.EXPECT().ToggleLike(gomock.Any(), items[0].ID, user).Return(models.LikeState{Liked: true, Count: 11}, nil),
		likes.EXPECT().ToggleLike(gomock.Any(), items[0].ID, user).Return(models.LikeState{Liked: false, Count: 10}, nil),
	)
	likes.EXPECT().IsLiked(gomock.Any(), items[0].ID, user).Return(false, nil)

	c := New(context.Background(), src, nil, likes, Options{PageSize: 10, UserID: user})
	t.Cleanup(c.Close)
	require.NoError(t, c.Initialize(context.Background()))

	st, err := c.LikeState(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, models.LikeState{Liked: false, Count: 10}, st)

	st, err = c.ToggleLike(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, models.LikeState{Liked: true, Count: 11}, st)
	require.EqualValues(t, 11, c.Snapshot().Items[0].LikesCount)

	st, err = c.ToggleLike(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, models.LikeState{Liked: false, Count: 10}, st)
	require.EqualValues(t, 10, c.Snapshot().Items[0].LikesCount)

	_, err = c.ToggleLike(context.Background(), 5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestController_ToggleLikeAnonymousSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	likes := mocks.NewMockLikeStore(ctrl) // вызовов не ожидается

	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 1)}}
	c := New(context.Background(), src, nil, likes, Options{PageSize: 10})
	t.Cleanup(c.Close)
	require.NoError(t, c.Initialize(context.Background()))

	st, err := c.ToggleLike(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, models.LikeState{Liked: false, Count: 10}, st)
}

func TestController_AutoplayRejectedFallsBackMuted(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3)}}
	c := newController(t, src, Options{PageSize: 10})
	require.NoError(t, c.Initialize(context.Background()))

	st := newStage()
	attachAll(c, st, 3)
	st.handle(0).rejectUnmuted = 1

	c.ReportVisible(visible(0))

	paused, muted, _, attempts := st.handle(0).state()
	require.False(t, paused)
	require.True(t, muted)
	require.Equal(t, 1, attempts)

	c.Interact()
	paused, muted, _, attempts = st.handle(0).state()
	require.False(t, paused)
	require.False(t, muted)
	require.Equal(t, 2, attempts)

	// Разблокировка нужна только один раз.
	c.Interact()
	_, _, _, attempts = st.handle(0).state()
	require.Equal(t, 2, attempts)
}

func TestController_PreloadWindow(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 6)}}
	c := newController(t, src, Options{PageSize: 10, PreloadAhead: 2})
	require.NoError(t, c.Initialize(context.Background()))

	st := newStage()
	attachAll(c, st, 6)

	c.ReportVisible(visible(1))

	want := []Preload{PreloadMetadata, PreloadAuto, PreloadAuto, PreloadAuto, PreloadMetadata, PreloadMetadata}
	for idx, p := range want {
		_, _, got, _ := st.handle(idx).state()
		require.Equal(t, p, got, "slot %d", idx)
	}

	// Слот, привязанный позже, сразу получает политику.
	late := newStage().handle(2)
	c.Attach(2, late)
	paused, muted, preload, _ := late.state()
	require.True(t, paused)
	require.True(t, muted)
	require.Equal(t, PreloadAuto, preload)
}

func TestController_IgnoresInvalidVisibility(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3)}}
	c := newController(t, src, Options{PageSize: 10, VisibilityThreshold: 0.5})
	require.NoError(t, c.Initialize(context.Background()))

	c.ReportVisible(
		VisibilityEntry{Index: 7, IsIntersecting: true},
		VisibilityEntry{Index: -1, IsIntersecting: true},
		VisibilityEntry{Index: 1, IsIntersecting: false},
		VisibilityEntry{Index: 2, IsIntersecting: true, Ratio: 0.3},
	)
	require.Equal(t, -1, c.Snapshot().ActiveIndex)

	// Последний валидный вход пачки определяет активный индекс.
	c.ReportVisible(visible(2), visible(1), VisibilityEntry{Index: 0, IsIntersecting: false})
	require.Equal(t, 1, c.Snapshot().ActiveIndex)
}

func TestController_InitializeErrorAndRetry(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 2)}}
	src.setFail(0, errors.New("network down"))

	c := newController(t, src, Options{PageSize: 10})

	require.Equal(t, PhaseUninitialized, c.Snapshot().Phase)

	err := c.Initialize(context.Background())
	require.Error(t, err)

	s := c.Snapshot()
	require.Equal(t, PhaseError, s.Phase)
	require.Equal(t, "network down", s.Err)
	require.Equal(t, []int{0}, src.Calls())

	src.setFail(0, nil)
	require.NoError(t, c.Retry(context.Background()))

	s = c.Snapshot()
	require.Empty(t, s.Err)
	require.Len(t, s.Items, 2)
	require.False(t, s.HasMore)
	require.Equal(t, PhaseReady, s.Phase)
}

func TestController_PaginationFailureKeepsHasMore(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3), 1: videos("p1", 3)}}
	src.setFail(1, errors.New("timeout"))

	c := newController(t, src, Options{PageSize: 3, NearEndThreshold: 1})
	require.NoError(t, c.Initialize(context.Background()))

	c.ReportVisible(visible(2))
	c.Wait()

	s := c.Snapshot()
	require.True(t, s.HasMore)
	require.Equal(t, "timeout", s.Err)
	require.Equal(t, PhaseError, s.Phase)
	require.Equal(t, 0, s.LoadedPage)

	// Новое пересечение порога повторяет загрузку.
	src.setFail(1, nil)
	c.ReportVisible(visible(1))
	c.ReportVisible(visible(2))
	c.Wait()

	s = c.Snapshot()
	require.Empty(t, s.Err)
	require.Equal(t, 1, s.LoadedPage)
	require.Len(t, s.Items, 6)
}

func TestController_CloseMakesFetchNoop(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3), 1: videos("p1", 3)}}
	c := New(context.Background(), src, nil, nil, Options{PageSize: 3, NearEndThreshold: 1})
	require.NoError(t, c.Initialize(context.Background()))

	st := newStage()
	attachAll(c, st, 3)

	src.gate = make(chan struct{})
	c.ReportVisible(visible(2))
	require.Eventually(t, func() bool { return len(src.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	c.Close()

	s := c.Snapshot()
	require.Equal(t, PhaseClosed, s.Phase)
	require.Len(t, s.Items, 3)

	// После Close события игнорируются, хэндлы не трогаются.
	c.ReportVisible(visible(0))
	require.Equal(t, 2, c.Snapshot().ActiveIndex)
	require.ErrorIs(t, c.Initialize(context.Background()), ErrClosed)
	_, err := c.ToggleLike(context.Background(), 0)
	require.ErrorIs(t, err, ErrClosed)
}

func TestController_ParentCancelFreezesState(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3), 1: videos("p1", 3)}}

	parent, cancel := context.WithCancel(context.Background())
	c := New(parent, src, nil, nil, Options{PageSize: 3, NearEndThreshold: 1})
	t.Cleanup(c.Close)
	require.NoError(t, c.Initialize(context.Background()))

	src.gate = make(chan struct{})
	c.ReportVisible(visible(2))
	require.Eventually(t, func() bool { return len(src.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	// Отмена родительского ctx обрывает загрузку, но ошибка в состояние не попадает.
	cancel()
	c.Wait()

	s := c.Snapshot()
	require.Equal(t, PhaseClosed, s.Phase)
	require.Empty(t, s.Err)
	require.Len(t, s.Items, 3)
	require.Zero(t, s.LoadedPage)

	c.ReportVisible(visible(0))
	require.Equal(t, 2, c.Snapshot().ActiveIndex)
	require.ErrorIs(t, c.Retry(context.Background()), ErrClosed)
}

// cappedSource урезает размер страницы сверху, как это делает сервер.
type cappedSource struct {
	inner *pageSource
	max   int
}

func (s cappedSource) LoadPage(ctx context.Context, page, pageSize int) (*models.Page, error) {
	return s.inner.LoadPage(ctx, page, min(pageSize, s.max))
}

func TestController_HasMoreUsesSourcePageSize(t *testing.T) {
	inner := &pageSource{pages: map[int][]models.Video{
		0: videos("p0", 4),
		1: videos("p1", 4),
		2: videos("p2", 1),
	}}
	c := newController(t, cappedSource{inner: inner, max: 4}, Options{PageSize: 6, NearEndThreshold: 1})
	require.NoError(t, c.Initialize(context.Background()))

	s := c.Snapshot()
	require.Len(t, s.Items, 4)
	require.True(t, s.HasMore)

	c.ReportVisible(visible(3))
	c.Wait()
	c.ReportVisible(visible(7))
	c.Wait()

	s = c.Snapshot()
	require.Len(t, s.Items, 9)
	require.False(t, s.HasMore)
	require.Equal(t, []int{0, 1, 2}, inner.Calls())
}

func TestController_PreloadAheadDefaultsAndNone(t *testing.T) {
	tests := []struct {
		name  string
		ahead int
		want  []Preload
	}{
		{"zero uses default", 0, []Preload{PreloadMetadata, PreloadAuto, PreloadAuto, PreloadAuto, PreloadMetadata}},
		{"none", PreloadNone, []Preload{PreloadMetadata, PreloadAuto, PreloadMetadata, PreloadMetadata, PreloadMetadata}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 5)}}
			c := newController(t, src, Options{PageSize: 10, PreloadAhead: tt.ahead})
			require.NoError(t, c.Initialize(context.Background()))

			st := newStage()
			attachAll(c, st, 5)
			c.ReportVisible(visible(1))

			for idx, p := range tt.want {
				_, _, got, _ := st.handle(idx).state()
				require.Equal(t, p, got, "slot %d", idx)
			}
		})
	}
}

func TestController_MetadataAndLoadedData(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3)}}
	c := newController(t, src, Options{PageSize: 10})
	require.NoError(t, c.Initialize(context.Background()))

	c.Metadata(0, 720, 1280)
	c.Metadata(1, 1920, 1080)
	c.Metadata(2, 0, 0)
	c.Metadata(9, 720, 1280)

	require.Equal(t, map[int]bool{0: true, 1: false, 2: false}, c.Snapshot().Portrait)

	st := newStage()
	attachAll(c, st, 3)
	c.ReportVisible(visible(1))

	h := st.handle(1)
	h.Pause()
	c.LoadedData(0) // не активный
	require.True(t, h.Paused())

	c.LoadedData(1)
	require.False(t, h.Paused())
}

type chanViewport struct {
	vis   chan []VisibilityEntry
	inter chan struct{}
}

func (v *chanViewport) Visibility() <-chan []VisibilityEntry { return v.vis }
func (v *chanViewport) Interactions() <-chan struct{}        { return v.inter }

func TestController_Observe(t *testing.T) {
	src := &pageSource{pages: map[int][]models.Video{0: videos("p0", 3)}}
	c := newController(t, src, Options{PageSize: 10})
	require.NoError(t, c.Initialize(context.Background()))

	vp := &chanViewport{vis: make(chan []VisibilityEntry), inter: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		c.Observe(context.Background(), vp)
		close(done)
	}()

	vp.vis <- []VisibilityEntry{visible(1)}
	vp.inter <- struct{}{}
	close(vp.vis)
	close(vp.inter)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Observe did not return after channels closed")
	}

	require.Equal(t, 1, c.Snapshot().ActiveIndex)
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{ViewThreshold: 1.5}.withDefaults()

	require.Equal(t, DefaultOptions().PageSize, o.PageSize)
	require.Equal(t, 2, o.PreloadAhead)
	require.Equal(t, 3, o.NearEndThreshold)
	require.Equal(t, 0.5, o.VisibilityThreshold)
	require.Equal(t, 0.8, o.ViewThreshold)
	require.Equal(t, "loading_more", PhaseLoadingMore.String())
}
