package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultVideoTitle — заголовок видео, если пользователь его не указал.
const DefaultVideoTitle = "Sem título"

// Video — опубликованное видео с карточкой автора.
type Video struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Description     string
	Location        string
	VideoKey        string
	VideoURL        string
	ThumbnailKey    string
	ThumbnailURL    string
	DurationSeconds int
	ViewsCount      int64
	LikesCount      int64
	Author          Author
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MaxPage — наибольший допустимый номер страницы; Offset не переполняется
// при любом разумном размере страницы.
const MaxPage = 1 << 20

// ListOptions — параметры offset-пагинации ленты.
// Page нумеруется с 0; страница N покрывает записи [N*PageSize, (N+1)*PageSize).
type ListOptions struct {
	Page     int
	PageSize int
}

// Offset возвращает смещение первой записи страницы.
func (o ListOptions) Offset() int { return o.Page * o.PageSize }

// Page — страница видео. HasMore истинно, если страница заполнена целиком.
type Page struct {
	Items    []Video
	Page     int
	PageSize int
	HasMore  bool
}

// LikeState — состояние лайка пользователя и итоговый счётчик видео.
type LikeState struct {
	Liked bool
	Count int64
}
