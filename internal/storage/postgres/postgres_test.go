package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты пакета postgres:
// - поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяют миграцию ./migrations/1_init_schema.up.sql;
// - проверяют пользователей, refresh-токены, профили и контакты (этот файл),
//   видео, лайки и подписки (videos_test.go).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает PostgreSQL, применяет схему и возвращает хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	// postgres иногда закрывает первое соединение сразу после открытия порта.
	require.Eventually(t, func() bool { return pool.Ping(ctx) == nil }, 30*time.Second, 200*time.Millisecond)

	_, err = pool.Exec(ctx, readMigration(t, "1_init_schema.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// mustProfile создаёт пользователя и профиль с заданным username.
func mustProfile(t *testing.T, st *Storage, username string) *models.Profile {
	t.Helper()
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, st.SaveUser(ctx, u))

	p, err := st.CreateProfile(ctx, &models.Profile{UserID: u.ID, Username: username})
	require.NoError(t, err)
	return p
}

func TestIntegration_Users(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "h"}
	require.NoError(t, st.SaveUser(ctx, u))

	byEmail, err := st.UserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", byID.Email)

	err = st.SaveUser(ctx, &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = st.UserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_RefreshTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Email: "rt@example.com", PasswordHash: "h"}
	require.NoError(t, st.SaveUser(ctx, u))

	now := time.Now().UTC()
	active := &models.RefreshToken{RefreshTokenHash: "active", UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	expired := &models.RefreshToken{RefreshTokenHash: "expired", UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, st.SaveRefreshToken(ctx, active))
	require.NoError(t, st.SaveRefreshToken(ctx, expired))

	require.ErrorIs(t, st.SaveRefreshToken(ctx, active), storage.ErrAlreadyExists)

	got, err := st.RefreshTokenByHash(ctx, "active")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.Revoked)

	// Первый отзыв меняет состояние, повторный — нет.
	changed, err := st.RevokeRefreshToken(ctx, "active")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = st.RevokeRefreshToken(ctx, "active")
	require.NoError(t, err)
	require.False(t, changed)

	_, err = st.RevokeRefreshToken(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	n, err := st.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.RefreshTokenByHash(ctx, "expired")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Profiles(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	p := mustProfile(t, st, "marta")
	require.WithinDuration(t, time.Now().UTC(), p.CreatedAt, 5*time.Second)

	// username уникален без учёта регистра.
	u := &models.User{ID: uuid.New(), Email: "other@example.com", PasswordHash: "h"}
	require.NoError(t, st.SaveUser(ctx, u))
	_, err := st.CreateProfile(ctx, &models.Profile{UserID: u.ID, Username: "MARTA"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := st.ProfileByUsername(ctx, "Marta")
	require.NoError(t, err)
	require.Equal(t, p.UserID, got.UserID)

	bio := "Camisa 10"
	typ := models.ProfileTypeAthlete
	updated, err := st.UpdateProfile(ctx, p.UserID, storage.ProfileUpdate{Bio: &bio, ProfileType: &typ})
	require.NoError(t, err)
	require.Equal(t, "Camisa 10", updated.Bio)
	require.Equal(t, models.ProfileTypeAthlete, updated.ProfileType)
	require.Equal(t, "marta", updated.Username)
	require.True(t, !updated.UpdatedAt.Before(p.UpdatedAt))

	withAvatar, err := st.ConfirmAvatarUpload(ctx, p.UserID, "avatars/x.jpg", "http://cdn/avatars/x.jpg")
	require.NoError(t, err)
	require.Equal(t, "avatars/x.jpg", withAvatar.AvatarKey)
	require.Equal(t, "http://cdn/avatars/x.jpg", withAvatar.AvatarURL)

	_, err = st.ProfileByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.ConfirmAvatarUpload(ctx, uuid.New(), "k", "u")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Contacts_Replace(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	p := mustProfile(t, st, "bia")

	first := []models.Contact{
		{ID: uuid.New(), Type: models.ContactInstagram, Title: "insta", URL: "https://instagram.com/bia", IconName: "instagram", OrderIndex: 1},
		{ID: uuid.New(), Type: models.ContactWhatsApp, Title: "zap", URL: "https://wa.me/5511999999999", IconName: "whatsapp", OrderIndex: 0},
	}
	got, err := st.ReplaceContacts(ctx, p.UserID, first)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, models.ContactWhatsApp, got[0].Type)
	require.Equal(t, p.UserID, got[1].ProfileID)

	// Полная замена набора.
	second := []models.Contact{
		{ID: uuid.New(), Type: models.ContactWebsite, Title: "site", URL: "https://bia.dev", IconName: "website"},
	}
	got, err = st.ReplaceContacts(ctx, p.UserID, second)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "https://bia.dev", got[0].URL)

	listed, err := st.ContactsByProfile(ctx, p.UserID)
	require.NoError(t, err)
	require.Equal(t, got, listed)

	// Очистка.
	got, err = st.ReplaceContacts(ctx, p.UserID, nil)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = st.ReplaceContacts(ctx, uuid.New(), second)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_ContextDeadline(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.UserByID(ctx, uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
