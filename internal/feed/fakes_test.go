package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

var errAutoplay = errors.New("NotAllowedError: play() without user gesture")

// stage — набор слотов; фиксирует нарушение «не больше одного слота со звуком».
type stage struct {
	mu         sync.Mutex
	handles    map[int]*fakeHandle
	violations int
}

func newStage() *stage { return &stage{handles: make(map[int]*fakeHandle)} }

func (s *stage) handle(idx int) *fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[idx]
	if !ok {
		h = &fakeHandle{stage: s, idx: idx, paused: true, muted: true}
		s.handles[idx] = h
	}

	return h
}

// audibleLocked считает слоты, которые играют со звуком. Вызывается под s.mu.
func (s *stage) audibleLocked() int {
	n := 0
	for _, h := range s.handles {
		if !h.paused && !h.muted {
			n++
		}
	}

	return n
}

func (s *stage) audible() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.audibleLocked()
}

func (s *stage) check() {
	if s.audibleLocked() > 1 {
		s.violations++
	}
}

// fakeHandle — медиа-элемент в памяти. rejectUnmuted — сколько попыток
// воспроизведения со звуком будет отклонено политикой автоплея.
type fakeHandle struct {
	stage *stage
	idx   int

	paused          bool
	muted           bool
	preload         Preload
	rejectUnmuted   int
	unmutedAttempts int
	plays           int
}

func (h *fakeHandle) Play() error {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	h.plays++

	if !h.muted {
		h.unmutedAttempts++
		if h.rejectUnmuted != 0 {
			if h.rejectUnmuted > 0 {
				h.rejectUnmuted--
			}
			return errAutoplay
		}
	}

	h.paused = false
	h.stage.check()

	return nil
}

func (h *fakeHandle) Pause() {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	h.paused = true
}

func (h *fakeHandle) SetMuted(muted bool) {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	h.muted = muted
	h.stage.check()
}

func (h *fakeHandle) SetPreload(p Preload) {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	h.preload = p
}

func (h *fakeHandle) Paused() bool {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	return h.paused
}

func (h *fakeHandle) state() (paused, muted bool, preload Preload, unmutedAttempts int) {
	h.stage.mu.Lock()
	defer h.stage.mu.Unlock()

	return h.paused, h.muted, h.preload, h.unmutedAttempts
}

// pageSource отдаёт заранее заданные страницы и ловит параллельные запросы.
type pageSource struct {
	mu    sync.Mutex
	pages map[int][]models.Video
	fail  map[int]error
	calls []int
	gate  chan struct{} // если не nil, каждый запрос ждёт сигнала

	inflight   atomic.Int32
	concurrent atomic.Int32
}

func (s *pageSource) LoadPage(ctx context.Context, page, pageSize int) (*models.Page, error) {
	if s.inflight.Add(1) > 1 {
		s.concurrent.Add(1)
	}
	defer s.inflight.Add(-1)

	s.mu.Lock()
	s.calls = append(s.calls, page)
	err := s.fail[page]
	items := s.pages[page]
	s.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	return &models.Page{Items: items, Page: page, PageSize: pageSize, HasMore: len(items) == pageSize}, nil
}

func (s *pageSource) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int(nil), s.calls...)
}

func (s *pageSource) setFail(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail == nil {
		s.fail = make(map[int]error)
	}

	if err == nil {
		delete(s.fail, page)
		return
	}

	s.fail[page] = err
}

func videos(prefix string, n int) []models.Video {
	out := make([]models.Video, n)
	for i := range out {
		out[i] = models.Video{
			ID:         uuid.New(),
			Title:      fmt.Sprintf("%s-%d", prefix, i),
			LikesCount: 10,
		}
	}

	return out
}

func visible(idx int) VisibilityEntry { return VisibilityEntry{Index: idx, IsIntersecting: true} }
