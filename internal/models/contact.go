package models

import "github.com/google/uuid"

// MaxContacts — максимум контактов в профиле.
const MaxContacts = 3

// ContactType — вид контакта в профиле.
type ContactType string

const (
	ContactWhatsApp  ContactType = "whatsapp"
	ContactPhone     ContactType = "telefone"
	ContactWebsite   ContactType = "website"
	ContactInstagram ContactType = "instagram"
	ContactX         ContactType = "x"
	ContactTikTok    ContactType = "tiktok"
	ContactYouTube   ContactType = "youtube"
)

// Valid сообщает, поддерживается ли вид контакта.
func (t ContactType) Valid() bool {
	switch t {
	case ContactWhatsApp, ContactPhone, ContactWebsite, ContactInstagram,
		ContactX, ContactTikTok, ContactYouTube:
		return true
	default:
		return false
	}
}

// Contact — ссылка-контакт профиля.
type Contact struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	Type       ContactType
	Title      string
	URL        string
	IconName   string
	OrderIndex int
}
