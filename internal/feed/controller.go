package feed

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

// Controller — состояние одной ленты. Все переходы выполняются под mu;
// загрузка страниц и отправка просмотров идут в горутинах, привязанных к ctx
// контроллера, и после Close ничего не меняют.
type Controller struct {
	src   VideoSource
	views ViewCounter // может быть nil
	likes LikeStore   // может быть nil
	opts  Options
	lg    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	items      []models.Video
	seen       map[uuid.UUID]struct{}
	active     int
	loadedPage int
	hasMore    bool
	loading    bool
	loaded     bool
	err        string
	portrait   map[int]bool
	handles    map[int]PlayableHandle
	counted    map[int]bool
	interacted bool
	closed     bool
}

// New создаёт контроллер. views и likes могут быть nil.
// Контроллер живёт до Close или отмены ctx.
func New(ctx context.Context, src VideoSource, views ViewCounter, likes LikeStore, opts Options) *Controller {
	opts = opts.withDefaults()

	lg := opts.Logger
	if lg == nil {
		lg = log.From(ctx)
	}

	cctx, cancel := context.WithCancel(ctx)

	return &Controller{
		src:      src,
		views:    views,
		likes:    likes,
		opts:     opts,
		lg:       lg.With("component", "feed"),
		ctx:      cctx,
		cancel:   cancel,
		active:   -1,
		seen:     make(map[uuid.UUID]struct{}),
		portrait: make(map[int]bool),
		handles:  make(map[int]PlayableHandle),
		counted:  make(map[int]bool),
	}
}

// Initialize загружает страницу 0 и заменяет ею элементы ленты.
// Ничего не воспроизводится до первого события видимости.
// Ошибка сохраняется в состоянии (Phase Error) и не повторяется автоматически.
func (c *Controller) Initialize(ctx context.Context) error {
	const op = "feed/controller/Initialize"

	c.mu.Lock()
	if c.done() {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}

	if c.loading {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}

	c.loading = true
	c.err = ""
	c.mu.Unlock()

	page, err := c.fetch(ctx, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}

	c.loading = false

	if err != nil {
		c.err = err.Error()
		c.lg.Warn("feed_initialize_failed", slog.String("op", op), slog.String("err", c.err))
		return fmt.Errorf("%s: %w", op, err)
	}

	c.items = c.items[:0]
	c.seen = make(map[uuid.UUID]struct{}, len(page.Items))
	c.appendUnique(page.Items)

	c.active = -1
	c.loadedPage = 0
	c.loaded = true
	c.hasMore = c.full(page)
	clear(c.portrait)
	clear(c.counted)

	for idx, h := range c.handles {
		h.Pause()
		h.SetMuted(true)
		h.SetPreload(c.preloadFor(idx))
	}

	c.lg.Debug("feed_initialized",
		slog.Int("items", len(c.items)),
		slog.Bool("has_more", c.hasMore),
	)

	return nil
}

// Retry — ручной повтор после ошибки: страница 0, если ничего не загружено,
// иначе следующая страница. Без hasMore повторять нечего.
func (c *Controller) Retry(ctx context.Context) error {
	const op = "feed/controller/Retry"

	c.mu.Lock()
	if c.done() {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}

	if !c.loaded {
		c.mu.Unlock()
		return c.Initialize(ctx)
	}

	if c.loading {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}

	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}

	next := c.loadedPage + 1
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	if err := c.loadMore(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close отменяет загрузки и дожидается фоновых горутин.
// После Close состояние не меняется, а хэндлы больше не вызываются.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
}

// done — контроллер закрыт явно или отменён родительский ctx (view размонтирован).
func (c *Controller) done() bool {
	return c.closed || c.ctx.Err() != nil
}

// full — страница заполнена целиком. Источник может урезать размер страницы
// (сервер ограничивает page_size сверху), тогда сравнение идёт с его размером.
func (c *Controller) full(p *models.Page) bool {
	size := c.opts.PageSize
	if p.PageSize > 0 && p.PageSize < size {
		size = p.PageSize
	}

	return len(p.Items) == size
}

// Wait блокируется, пока не завершатся фоновые загрузки и отправки просмотров.
func (c *Controller) Wait() { c.wg.Wait() }

// Snapshot возвращает копию состояния.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Items:       slices.Clone(c.items),
		ActiveIndex: c.active,
		LoadedPage:  c.loadedPage,
		HasMore:     c.hasMore,
		IsLoading:   c.loading,
		Portrait:    maps.Clone(c.portrait),
		Err:         c.err,
		Phase:       c.phase(),
	}
}

func (c *Controller) phase() Phase {
	switch {
	case c.done():
		return PhaseClosed
	case c.loading && !c.loaded:
		return PhaseLoading
	case c.loading:
		return PhaseLoadingMore
	case c.err != "":
		return PhaseError
	case !c.loaded:
		return PhaseUninitialized
	case !c.hasMore && (len(c.items) == 0 || c.active == len(c.items)-1):
		return PhaseExhausted
	default:
		return PhaseReady
	}
}

// fetch запрашивает страницу; запрос отменяется и по ctx, и по Close.
func (c *Controller) fetch(ctx context.Context, page int) (*models.Page, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	p, err := c.src.LoadPage(ctx, page, c.opts.PageSize)
	if err != nil {
		return nil, err
	}

	if p == nil {
		p = &models.Page{}
	}

	return p, nil
}

// maybeLoadMore — триггер пагинации. Вызывается под mu при смене активного
// индекса или числа элементов.
func (c *Controller) maybeLoadMore() {
	if c.done() || c.loading || !c.hasMore || c.active < 0 || len(c.items) == 0 {
		return
	}

	if c.active < len(c.items)-c.opts.NearEndThreshold {
		return
	}

	next := c.loadedPage + 1
	c.loading = true
	c.err = ""

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.loadMore(c.ctx, next)
	}()
}

// loadMore загружает страницу next и дописывает новые элементы.
// Вызывается без mu с уже выставленным loading.
func (c *Controller) loadMore(ctx context.Context, next int) error {
	const op = "feed/controller/loadMore"

	page, err := c.fetch(ctx, next)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return ErrClosed
	}

	c.loading = false

	if err != nil {
		c.err = err.Error()
		c.lg.Warn("feed_page_failed",
			slog.String("op", op),
			slog.Int("page", next),
			slog.String("err", c.err),
		)
		return err
	}

	before := len(c.items)

	if len(page.Items) > 0 {
		c.appendUnique(page.Items)
		c.loadedPage = next
	}

	c.hasMore = c.full(page)

	c.lg.Debug("feed_page_loaded",
		slog.Int("page", next),
		slog.Int("received", len(page.Items)),
		slog.Int("appended", len(c.items)-before),
		slog.Bool("has_more", c.hasMore),
	)

	for idx := before; idx < len(c.items); idx++ {
		if h, ok := c.handles[idx]; ok {
			h.SetPreload(c.preloadFor(idx))
		}
	}

	c.maybeLoadMore()

	return nil
}

// appendUnique дописывает элементы, пропуская уже известные id.
func (c *Controller) appendUnique(items []models.Video) {
	for _, v := range items {
		if _, dup := c.seen[v.ID]; dup {
			continue
		}

		c.seen[v.ID] = struct{}{}
		c.items = append(c.items, v)
	}
}
