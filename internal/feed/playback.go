package feed

import (
	"context"
	"log/slog"
)

// Attach привязывает медиа-слот к индексу. Слот сразу получает текущую
// политику: активный играет, остальные на паузе без звука.
func (c *Controller) Attach(index int, h PlayableHandle) {
	if h == nil || index < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return
	}

	c.handles[index] = h
	h.SetPreload(c.preloadFor(index))

	if index == c.active {
		c.play(h)
		return
	}

	h.Pause()
	h.SetMuted(true)
}

// Detach отвязывает слот (элемент ушёл из DOM/рендера).
func (c *Controller) Detach(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.handles, index)
}

// ReportVisible обрабатывает пачку событий видимости по порядку.
// Активным становится последний валидный пересекающийся индекс пачки;
// события выхода и индексы вне [0, len(items)) игнорируются.
func (c *Controller) ReportVisible(entries ...VisibilityEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return
	}

	target := -1
	for _, e := range entries {
		if !e.IsIntersecting {
			continue
		}

		if e.Ratio > 0 && e.Ratio < c.opts.VisibilityThreshold {
			continue
		}

		if e.Index < 0 || e.Index >= len(c.items) {
			continue
		}

		target = e.Index
	}

	if target >= 0 {
		c.setActive(target)
	}
}

// setActive переключает активный индекс (под mu). Сначала все остальные
// слоты ставятся на паузу без звука, затем запускается новый активный.
func (c *Controller) setActive(index int) {
	if index == c.active {
		return
	}

	prev := c.active
	c.active = index

	// Новая сессия просмотра и для уходящего, и для нового активного.
	delete(c.counted, prev)
	delete(c.counted, index)

	for idx, h := range c.handles {
		if idx == index {
			continue
		}

		h.Pause()
		h.SetMuted(true)
	}

	if h, ok := c.handles[index]; ok {
		c.play(h)
	}

	for idx, h := range c.handles {
		h.SetPreload(c.preloadFor(idx))
	}

	c.lg.Debug("feed_active_changed", slog.Int("from", prev), slog.Int("to", index))

	c.maybeLoadMore()
}

// play пробует воспроизведение со звуком, при отказе — без звука.
func (c *Controller) play(h PlayableHandle) {
	h.SetMuted(false)

	err := h.Play()
	if err == nil {
		return
	}

	c.lg.Debug("feed_autoplay_rejected", slog.String("err", err.Error()))

	h.SetMuted(true)
	if err := h.Play(); err != nil {
		c.lg.Debug("feed_muted_play_failed", slog.String("err", err.Error()))
	}
}

// preloadFor: [active, active+PreloadAhead] буферизуются полностью,
// остальные только метаданные.
func (c *Controller) preloadFor(index int) Preload {
	if c.active >= 0 && index >= c.active && index <= c.active+c.opts.PreloadAhead {
		return PreloadAuto
	}

	return PreloadMetadata
}

// Interact — первое взаимодействие пользователя с лентой: одна попытка
// включить звук у активного слота. Повторные вызовы ничего не делают.
func (c *Controller) Interact() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() || c.interacted {
		return
	}

	c.interacted = true

	if h, ok := c.handles[c.active]; ok {
		c.play(h)
	}
}

// LoadedData — медиа слота загрузилось. Активный слот на паузе запускается снова.
func (c *Controller) LoadedData(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() || index != c.active {
		return
	}

	if h, ok := c.handles[index]; ok && h.Paused() {
		c.play(h)
	}
}

// TimeUpdate — прогресс воспроизведения. Для активного слота при первом
// превышении ViewThreshold в сессии просмотра засчитывается один просмотр.
func (c *Controller) TimeUpdate(index int, currentTime, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() || index != c.active || index < 0 || index >= len(c.items) {
		return
	}

	ratio := 0.0
	if duration > 0 {
		ratio = currentTime / duration
	}

	if ratio <= c.opts.ViewThreshold || c.counted[index] {
		return
	}

	c.counted[index] = true
	c.items[index].ViewsCount++

	if c.views == nil {
		return
	}

	id := c.items[index].ID

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if err := c.views.IncrementViews(c.ctx, id); err != nil && c.ctx.Err() == nil {
			c.lg.Debug("feed_view_report_failed",
				slog.String("video_id", id.String()),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Ended — граница цикла воспроизведения: начинается новая сессия просмотра.
func (c *Controller) Ended(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.counted, index)
}

// Metadata фиксирует ориентацию слота по размерам кадра.
func (c *Controller) Metadata(index, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() || index < 0 || index >= len(c.items) {
		return
	}

	c.portrait[index] = width > 0 && height > 0 && height >= width
}

// Observe перекачивает события Viewport в контроллер до отмены ctx или Close.
func (c *Controller) Observe(ctx context.Context, vp Viewport) {
	vis := vp.Visibility()
	inter := vp.Interactions()

	for vis != nil || inter != nil {
		select {
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		case batch, ok := <-vis:
			if !ok {
				vis = nil
				continue
			}
			c.ReportVisible(batch...)
		case _, ok := <-inter:
			if !ok {
				inter = nil
				continue
			}
			c.Interact()
		}
	}
}
