// format — подписи для карточек ленты: счётчики, длительность, ориентация кадра.
package format

import (
	"fmt"
	"strconv"
)

// Orientation — ориентация кадра по соотношению сторон.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Square    Orientation = "square"
)

// Views форматирует счётчик просмотров: 999, 1.5K, 2.3M.
func Views(n int64) string { return compact(n) }

// Likes форматирует счётчик лайков так же, как Views.
func Likes(n int64) string { return compact(n) }

func compact(n int64) string {
	switch {
	case n < 1_000:
		return strconv.FormatInt(n, 10)
	case n < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
}

// Duration: меньше минуты — "45s", иначе "m:ss".
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// OrientationOf определяет ориентацию: ширина/высота > 1.2 — landscape,
// < 0.8 — portrait, иначе square. Неизвестные размеры считаются square.
func OrientationOf(width, height int) Orientation {
	if width <= 0 || height <= 0 {
		return Square
	}

	ratio := float64(width) / float64(height)

	switch {
	case ratio > 1.2:
		return Landscape
	case ratio < 0.8:
		return Portrait
	default:
		return Square
	}
}

// ObjectFit — режим вписывания кадра в слот ленты.
func ObjectFit(portrait bool) string {
	if portrait {
		return "cover"
	}

	return "contain"
}
