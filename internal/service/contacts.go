package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

const contactTitleMaxLen = 50

// ContactInput — контакт в том виде, как его прислал клиент.
type ContactInput struct {
	Type     string
	Title    string
	URL      string
	IconName string
}

// ContactsByProfile возвращает контакты профиля по возрастанию order_index.
func (s *Service) ContactsByProfile(ctx context.Context, profileID uuid.UUID) ([]models.Contact, error) {
	const op = "service/contacts/ContactsByProfile"

	lg := log.From(ctx).With("op", op, "profile_id", profileID.String())

	if profileID == uuid.Nil {
		lg.Warn("invalid argument: empty profile_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	out, err := s.storage.ContactsByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ContactsByProfile", err))
	}

	return out, nil
}

// ReplaceContacts заменяет контакты профиля целиком.
//
// Берутся первые models.MaxContacts элементов; строки с неизвестным типом или
// пустыми title/url отбрасываются; дубликаты по типу — остаётся первый.
// order_index — позиция во входном списке.
func (s *Service) ReplaceContacts(ctx context.Context, profileID uuid.UUID, input []ContactInput) ([]models.Contact, error) {
	const op = "service/contacts/ReplaceContacts"

	lg := log.From(ctx).With("op", op, "profile_id", profileID.String())

	if profileID == uuid.Nil {
		lg.Warn("invalid argument: empty profile_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	contacts := NormalizeContacts(input)

	out, err := s.storage.ReplaceContacts(ctx, profileID, contacts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ReplaceContacts", err))
	}

	lg.Info("contacts replaced", "received", len(input), "stored", len(out))

	return out, nil
}

// NormalizeContacts применяет правила ReplaceContacts к входному списку.
func NormalizeContacts(input []ContactInput) []models.Contact {
	if len(input) > models.MaxContacts {
		input = input[:models.MaxContacts]
	}

	out := make([]models.Contact, 0, len(input))
	seen := make(map[models.ContactType]struct{}, len(input))

	for idx, in := range input {
		typ := models.ContactType(strings.ToLower(strings.TrimSpace(in.Type)))
		if !typ.Valid() {
			continue
		}

		title := []rune(normalizeText(in.Title))
		if len(title) > contactTitleMaxLen {
			title = title[:contactTitleMaxLen]
		}

		url := BuildContactURL(typ, in.URL)
		if len(title) == 0 || url == "" {
			continue
		}

		if _, dup := seen[typ]; dup {
			continue
		}
		seen[typ] = struct{}{}

		icon := strings.ToLower(strings.TrimSpace(in.IconName))
		if icon == "" {
			icon = string(typ)
		}

		out = append(out, models.Contact{
			ID:         uuid.New(),
			Type:       typ,
			Title:      string(title),
			URL:        url,
			IconName:   icon,
			OrderIndex: idx,
		})
	}

	return out
}

// BuildContactURL строит ссылку по типу контакта:
// whatsapp -> https://wa.me/<цифры>, telefone -> tel:+<цифры>,
// website -> добавляет https:// при отсутствии схемы, остальные — как есть.
// Пустой результат означает, что ссылку построить нельзя.
func BuildContactURL(typ models.ContactType, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	switch typ {
	case models.ContactWhatsApp:
		if strings.HasPrefix(raw, "https://wa.me/") {
			return raw
		}
		if d := digits(raw); d != "" {
			return "https://wa.me/" + d
		}
		return ""
	case models.ContactPhone:
		if d := digits(raw); d != "" {
			return "tel:+" + d
		}
		return ""
	case models.ContactWebsite:
		lower := strings.ToLower(raw)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return raw
		}
		return "https://" + raw
	default:
		return raw
	}
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
