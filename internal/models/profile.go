package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileType — роль пользователя в сообществе.
type ProfileType string

const (
	ProfileTypeUnspecified ProfileType = ""
	ProfileTypeAthlete     ProfileType = "atleta"
	ProfileTypeClub        ProfileType = "clube"
	ProfileTypeScout       ProfileType = "olheiro"
	ProfileTypeFan         ProfileType = "torcedora"
	ProfileTypeOther       ProfileType = "outro"
)

// Valid сообщает, входит ли значение в допустимый набор.
func (t ProfileType) Valid() bool {
	switch t {
	case ProfileTypeUnspecified, ProfileTypeAthlete, ProfileTypeClub,
		ProfileTypeScout, ProfileTypeFan, ProfileTypeOther:
		return true
	default:
		return false
	}
}

// Positions — допустимые позиции в поле (пустая строка — не указана).
var Positions = []string{
	"Goleira",
	"Zagueira",
	"Lateral-direita",
	"Lateral-esquerda",
	"Volante",
	"Meio-campista",
	"Meia-atacante",
	"Ponta-direita",
	"Ponta-esquerda",
	"Atacante",
	"Centroavante",
	"Outra",
}

// ValidPosition проверяет позицию по списку Positions.
func ValidPosition(p string) bool {
	if p == "" {
		return true
	}

	for _, v := range Positions {
		if v == p {
			return true
		}
	}

	return false
}

// Profile — публичный профиль пользователя.
type Profile struct {
	UserID      uuid.UUID
	Username    string
	FullName    string
	Bio         string
	ProfileType ProfileType
	Location    string
	Position    string
	AvatarKey   string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Author — денормализованная карточка автора видео (снимок на момент чтения).
type Author struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	AvatarURL string
}

// DisplayName возвращает полное имя, а при его отсутствии — username.
func (a Author) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}

	return a.Username
}

// Author формирует карточку автора из профиля.
func (p *Profile) Author() Author {
	return Author{
		ID:        p.UserID,
		Username:  p.Username,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
	}
}
