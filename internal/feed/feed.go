// feed управляет лентой коротких видео: постраничная подгрузка,
// единственный активный (играющий со звуком) элемент, подсказки предзагрузки
// и учёт просмотров.
//
// Controller не зависит от платформы: видимость слотов приходит через Viewport,
// медиа-элементы управляются через PlayableHandle, данные берутся из VideoSource.
//
//   - feed.go — контракты и опции;
//   - controller.go — состояние, инициализация, пагинация, закрытие;
//   - playback.go — активный элемент, воспроизведение, предзагрузка, просмотры;
//   - likes.go — лайки текущего пользователя.
package feed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrClosed — контроллер закрыт, операция не выполняется.
	ErrClosed = errors.New("feed controller closed")
	// ErrBusy — загрузка страницы уже выполняется.
	ErrBusy = errors.New("page fetch in flight")
	// ErrIndexOutOfRange — индекс вне загруженных элементов.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// VideoSource отдаёт страницу ленты. Порядок стабилен между вызовами.
type VideoSource interface {
	LoadPage(ctx context.Context, page, pageSize int) (*models.Page, error)
}

// ViewCounter засчитывает один просмотр видео.
type ViewCounter interface {
	IncrementViews(ctx context.Context, videoID uuid.UUID) error
}

// LikeStore читает и переключает лайк пользователя.
type LikeStore interface {
	IsLiked(ctx context.Context, videoID, userID uuid.UUID) (bool, error)
	ToggleLike(ctx context.Context, videoID, userID uuid.UUID) (models.LikeState, error)
}

// Preload — подсказка буферизации медиа-элемента.
type Preload string

const (
	PreloadMetadata Preload = "metadata"
	PreloadAuto     Preload = "auto"
)

// PlayableHandle — управление одним медиа-элементом (слотом ленты).
//
// Методы вызываются под блокировкой контроллера и не должны синхронно
// обращаться к нему обратно.
type PlayableHandle interface {
	// Play запускает воспроизведение; ошибка означает отказ политики автоплея.
	Play() error
	Pause()
	SetMuted(muted bool)
	SetPreload(p Preload)
	Paused() bool
}

// VisibilityEntry — событие пересечения слота с областью просмотра.
// Ratio необязателен: ноль означает, что порог уже применён источником.
type VisibilityEntry struct {
	Index          int
	IsIntersecting bool
	Ratio          float64
}

// Viewport поставляет пачки событий видимости и сигналы взаимодействия
// пользователя (pointer-down / touch-start).
type Viewport interface {
	Visibility() <-chan []VisibilityEntry
	Interactions() <-chan struct{}
}

// PreloadNone отключает полную буферизацию следующих элементов: Auto получает только активный.
const PreloadNone = -1

// Options — настройки контроллера. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	PageSize int
	// PreloadAhead — сколько элементов после активного буферизуются полностью;
	// PreloadNone (любое отрицательное значение) — ни одного.
	PreloadAhead        int
	NearEndThreshold    int
	VisibilityThreshold float64
	ViewThreshold       float64
	// UserID — текущий пользователь; uuid.Nil отключает лайки.
	UserID uuid.UUID
	Logger *slog.Logger
}

// DefaultOptions возвращает настройки ленты по умолчанию.
func DefaultOptions() Options {
	return Options{
		PageSize:            10,
		PreloadAhead:        2,
		NearEndThreshold:    3,
		VisibilityThreshold: 0.5,
		ViewThreshold:       0.8,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.PageSize <= 0 {
		o.PageSize = def.PageSize
	}

	switch {
	case o.PreloadAhead == 0:
		o.PreloadAhead = def.PreloadAhead
	case o.PreloadAhead < 0:
		o.PreloadAhead = 0
	}

	if o.NearEndThreshold <= 0 {
		o.NearEndThreshold = def.NearEndThreshold
	}

	if o.VisibilityThreshold <= 0 || o.VisibilityThreshold > 1 {
		o.VisibilityThreshold = def.VisibilityThreshold
	}

	if o.ViewThreshold <= 0 || o.ViewThreshold >= 1 {
		o.ViewThreshold = def.ViewThreshold
	}

	return o
}

// Phase — производное состояние ленты для слоя представления.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseError
	PhaseExhausted
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading_more"
	case PhaseError:
		return "error"
	case PhaseExhausted:
		return "exhausted"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State — снимок состояния ленты.
// ActiveIndex равен -1, пока ни один слот не стал видимым.
type State struct {
	Items       []models.Video
	ActiveIndex int
	LoadedPage  int
	HasMore     bool
	IsLoading   bool
	Portrait    map[int]bool
	Err         string
	Phase       Phase
}
