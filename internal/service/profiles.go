package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	bioMaxLen      = 500
)

// Входные структуры сервисного слоя.
type CompleteProfileInput struct {
	UserID      uuid.UUID
	Username    string
	FullName    string
	Bio         string
	ProfileType models.ProfileType
	Location    string
	Position    string
}

type UpdateProfileInput struct {
	UserID      uuid.UUID
	Username    *string
	FullName    *string
	Bio         *string
	ProfileType *models.ProfileType
	Location    *string
	Position    *string
	// Mask — список обновляемых полей: "username", "full_name", "bio",
	// "profile_type", "location", "position". Если пусто — обновятся поля
	// с заданными указателями; иначе для каждого поля из mask указатель обязателен.
	Mask []string
}

type AvatarUploadURLInput struct {
	UserID        uuid.UUID
	ContentType   string
	ContentLength int64
}

type ConfirmAvatarUploadInput struct {
	UserID    uuid.UUID
	AvatarKey string
}

// normalizeText обрезает пробелы и приводит строку к NFC.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeUsername: trim, NFC, lower; 3..30 символов из [a-z0-9._].
func normalizeUsername(raw string) (string, bool) {
	u := strings.ToLower(normalizeText(raw))

	n := utf8.RuneCountInString(u)
	if n < usernameMinLen || n > usernameMaxLen {
		return "", false
	}

	for _, r := range u {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
		default:
			return "", false
		}
	}

	return u, true
}

// CompleteProfile создаёт профиль пользователя после регистрации.
//
// Валидация: userID обязателен; username по правилам normalizeUsername;
// bio не длиннее 500 символов; profile_type и position из допустимых наборов.
// Ошибки: ErrInvalidArgument, ErrAlreadyExists (профиль или username заняты), ErrInternal.
func (s *Service) CompleteProfile(ctx context.Context, input CompleteProfileInput) (*models.Profile, error) {
	const op = "service/profiles/CompleteProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	username, ok := normalizeUsername(input.Username)
	if !ok {
		lg.Warn("invalid argument: username", "username", input.Username)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	bio := normalizeText(input.Bio)
	if utf8.RuneCountInString(bio) > bioMaxLen {
		lg.Warn("invalid argument: bio too long")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !input.ProfileType.Valid() || !models.ValidPosition(input.Position) {
		lg.Warn("invalid argument: profile type or position",
			"profile_type", input.ProfileType, "position", input.Position)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	profile := &models.Profile{
		UserID:      input.UserID,
		Username:    username,
		FullName:    normalizeText(input.FullName),
		Bio:         bio,
		ProfileType: input.ProfileType,
		Location:    normalizeText(input.Location),
		Position:    input.Position,
	}

	result, err := s.storage.CreateProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "CreateProfile", err))
	}

	lg.Info("profile created", "username", username)

	return result, nil
}

// ProfileByID возвращает профиль по идентификатору пользователя.
func (s *Service) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.ProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ProfileByID", err))
	}

	return result, nil
}

// ProfileByUsername возвращает профиль по username (без учёта регистра).
func (s *Service) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "service/profiles/ProfileByUsername"

	lg := log.From(ctx).With("op", op, "username", username)

	uname, ok := normalizeUsername(username)
	if !ok {
		lg.Warn("invalid argument: username")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.ProfileByUsername(ctx, uname)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ProfileByUsername", err))
	}

	return result, nil
}

// UpdateProfile выполняет частичное обновление полей профиля.
//
// Правила mask как у UpdateProfileInput. Пустые location/bio/full_name/position
// допустимы и означают «очистить»; username не может стать пустым.
// No-op апдейт допустим: updated_at всё равно сдвигается на уровне БД.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/UpdateProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	allowed := map[string]struct{}{
		"username":     {},
		"full_name":    {},
		"bio":          {},
		"profile_type": {},
		"location":     {},
		"position":     {},
	}

	for _, f := range input.Mask {
		if _, ok := allowed[f]; !ok {
			lg.Warn("invalid mask field", "field", f)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	useField := func(name string, set bool) (bool, error) {
		if len(input.Mask) == 0 {
			return set, nil
		}

		for _, f := range input.Mask {
			if f == name {
				if !set {
					lg.Warn("mask requires value", "field", name)
					return false, ErrInvalidArgument
				}
				return true, nil
			}
		}

		return false, nil
	}

	upd := storage.ProfileUpdate{}

	if use, err := useField("username", input.Username != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		val, ok := normalizeUsername(*input.Username)
		if !ok {
			lg.Warn("invalid argument: username in update")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Username = &val
	}

	if use, err := useField("full_name", input.FullName != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		val := normalizeText(*input.FullName)
		upd.FullName = &val
	}

	if use, err := useField("bio", input.Bio != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		val := normalizeText(*input.Bio)
		if utf8.RuneCountInString(val) > bioMaxLen {
			lg.Warn("invalid argument: bio too long")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Bio = &val
	}

	if use, err := useField("profile_type", input.ProfileType != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		if !input.ProfileType.Valid() {
			lg.Warn("invalid argument: profile type", "profile_type", *input.ProfileType)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.ProfileType = input.ProfileType
	}

	if use, err := useField("location", input.Location != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		val := normalizeText(*input.Location)
		upd.Location = &val
	}

	if use, err := useField("position", input.Position != nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if use {
		if !models.ValidPosition(*input.Position) {
			lg.Warn("invalid argument: position", "position", *input.Position)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Position = input.Position
	}

	result, err := s.storage.UpdateProfile(ctx, input.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "UpdateProfile", err))
	}

	return result, nil
}

// AvatarUploadURL генерирует presigned PUT URL для загрузки аватара.
// Ограничения типа/размера проверяет слой storage.MediaStorage.
func (s *Service) AvatarUploadURL(ctx context.Context, input AvatarUploadURLInput) (*storage.UploadInfo, error) {
	const op = "service/profiles/AvatarUploadURL"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.UserID == uuid.Nil || strings.TrimSpace(input.ContentType) == "" || input.ContentLength <= 0 {
		lg.Warn("invalid argument for presign", "content_type", input.ContentType, "content_length", input.ContentLength)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.media.UploadURL(ctx, storage.UploadRequest{
		Kind:          storage.MediaAvatar,
		UserID:        input.UserID,
		ContentType:   input.ContentType,
		ContentLength: input.ContentLength,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "UploadURL", err))
	}

	return result, nil
}

// ConfirmAvatarUpload проверяет загруженный объект и фиксирует его в профиле.
// Ошибки: ErrInvalidArgument — чужой ключ/нарушены лимиты; ErrNotFound — нет объекта или профиля.
func (s *Service) ConfirmAvatarUpload(ctx context.Context, input ConfirmAvatarUploadInput) (*models.Profile, error) {
	const op = "service/profiles/ConfirmAvatarUpload"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String(), "avatar_key", input.AvatarKey)

	if input.UserID == uuid.Nil || strings.TrimSpace(input.AvatarKey) == "" {
		lg.Warn("invalid argument for confirm")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.media.CheckUpload(ctx, storage.MediaAvatar, input.UserID, input.AvatarKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "CheckUpload", err))
	}

	result, err := s.storage.ConfirmAvatarUpload(ctx, input.UserID, input.AvatarKey, publicURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageErr(lg, "ConfirmAvatarUpload", err))
	}

	s.metrics.UploadConfirmed(string(storage.MediaAvatar))

	return result, nil
}
