package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const profileColumns = `
user_id, username, full_name, bio, profile_type, location, position, avatar_key, avatar_url, created_at, updated_at
`

// scanProfile сканирует одну строку профиля в доменную модель.
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var profileType string

	if err := row.Scan(
		&profile.UserID,
		&profile.Username,
		&profile.FullName,
		&profile.Bio,
		&profileType,
		&profile.Location,
		&profile.Position,
		&profile.AvatarKey,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile.ProfileType = models.ProfileType(profileType)

	return &profile, nil
}

// CreateProfile вставляет новую запись профиля.
// Ошибки: storage.ErrAlreadyExists при конфликте user_id или username.
func (s *Storage) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	const op = "storage/postgres/profiles/CreateProfile"

	q := `
	INSERT INTO profiles (user_id, username, full_name, bio, profile_type, location, position, avatar_key, avatar_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING
	` + profileColumns

	row := s.db.QueryRow(ctx, q,
		profile.UserID,
		profile.Username,
		profile.FullName,
		profile.Bio,
		string(profile.ProfileType),
		profile.Location,
		profile.Position,
		profile.AvatarKey,
		profile.AvatarURL,
	)

	result, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// ProfileByID возвращает профиль по user_id.
func (s *Storage) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	result, err := scanProfile(s.db.QueryRow(ctx, q, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// ProfileByUsername возвращает профиль по username без учёта регистра.
func (s *Storage) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByUsername"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(username) = lower($1)`

	result, err := scanProfile(s.db.QueryRow(ctx, q, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// UpdateProfile выполняет частичный апдейт: обновляет только поля,
// указанные непустыми pointer-полями, и всегда сдвигает updated_at = now().
func (s *Storage) UpdateProfile(ctx context.Context, userID uuid.UUID, update storage.ProfileUpdate) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpdateProfile"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Username != nil {
		add("username", *update.Username)
	}

	if update.FullName != nil {
		add("full_name", *update.FullName)
	}

	if update.Bio != nil {
		add("bio", *update.Bio)
	}

	if update.ProfileType != nil {
		add("profile_type", string(*update.ProfileType))
	}

	if update.Location != nil {
		add("location", *update.Location)
	}

	if update.Position != nil {
		add("position", *update.Position)
	}

	args = append(args, userID)

	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileColumns)

	result, err := scanProfile(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}

// ConfirmAvatarUpload фиксирует avatar_key и avatar_url
// после успешной проверки объекта в S3/MinIO. Всегда обновляет updated_at.
func (s *Storage) ConfirmAvatarUpload(ctx context.Context, userID uuid.UUID, key, publicURL string) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ConfirmAvatarUpload"

	q := `
	UPDATE profiles
	SET avatar_key = $2, avatar_url = $3, updated_at = now()
	WHERE user_id = $1
	RETURNING
	` + profileColumns

	result, err := scanProfile(s.db.QueryRow(ctx, q, userID, key, publicURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return result, nil
}
