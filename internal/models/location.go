package models

// Location — подсказка места для профиля/видео.
// Label — укороченная подпись (первые сегменты адреса), FullLabel — исходная.
type Location struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	FullLabel string  `json:"full_label"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}
