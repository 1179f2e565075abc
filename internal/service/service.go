// service содержит бизнес-логику elas-no-jogo:
//   - auth.go, token.go — регистрация, вход, выпуск/ротация/проверка токенов;
//   - profiles.go, contacts.go — профили, аватары и контакты;
//   - videos.go — загрузка, лента, редактирование и удаление видео, просмотры;
//   - likes.go, follows.go — лайки и подписки;
//   - locations.go — подсказки локаций (кэш + геокодер);
//   - janitor.go — периодическая очистка просроченных refresh-токенов.
//
// Service не хранит состояние запроса и безопасен для конкурентного использования,
// если переданные хранилища потокобезопасны. Ошибки возвращаются sentinel-значениями
// ниже и маппятся транспортом на коды ответа.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RickkCastro/ElasNoJogo/internal/cache"
	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/metrics"
	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности/дубликат.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden — операция над чужим ресурсом.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated — операция требует пользователя.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnavailable — внешний сервис (геокодер) недоступен.
	ErrUnavailable = errors.New("unavailable")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")

	// ErrVideoTooLong — длительность видео вне диапазона 1..max секунд.
	ErrVideoTooLong = errors.New("video too long")

	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken — токен некорректен по формату/подписи или отсутствует в хранилище.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked — токен отозван и недействителен независимо от срока.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrEmailTaken — e-mail уже занят.
	ErrEmailTaken = errors.New("email already taken")
	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный refresh-токен.
	ErrRefreshTokenCollision = errors.New("refresh token collision")
	// ErrInvalidEmail — e-mail имеет некорректный формат.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword — пароль не удовлетворяет политике сложности.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrEmptyPassword — пароль пустой.
	ErrEmptyPassword = errors.New("password is empty")
)

// Geocoder ищет места по текстовому запросу.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
}

// Service описывает бизнес-логику приложения.
type Service struct {
	cfg      *config.Config
	storage  storage.Storage
	media    storage.MediaStorage
	rcache   cache.RefreshCache  // может быть nil
	lcache   cache.LocationCache // может быть nil
	geocoder Geocoder            // может быть nil: поиск локаций недоступен
	metrics  *metrics.Metrics    // может быть nil
}

// New создаёт новый экземпляр Service.
func New(st storage.Storage, media storage.MediaStorage, cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		storage: st,
		media:   media,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) { s.rcache = c }

// SetLocationCache устанавливает кэш подсказок локаций (опционально).
func (s *Service) SetLocationCache(c cache.LocationCache) { s.lcache = c }

// SetGeocoder устанавливает геокодер для поиска локаций.
func (s *Service) SetGeocoder(g Geocoder) { s.geocoder = g }

// SetMetrics устанавливает прикладные метрики.
func (s *Service) SetMetrics(m *metrics.Metrics) { s.metrics = m }

// normalizeListOptions приводит параметры страницы к конфигу:
// отрицательная страница -> 0, страница больше MaxPage -> MaxPage,
// размер вне (0..max] -> default/max.
func (s *Service) normalizeListOptions(opts models.ListOptions) models.ListOptions {
	if opts.Page < 0 {
		opts.Page = 0
	}

	if opts.Page > models.MaxPage {
		opts.Page = models.MaxPage
	}

	if opts.PageSize <= 0 {
		opts.PageSize = s.cfg.Feed.DefaultPageSize
	}

	if opts.PageSize > s.cfg.Feed.MaxPageSize {
		opts.PageSize = s.cfg.Feed.MaxPageSize
	}

	return opts
}

// storageErr переводит sentinel-ошибки хранилищ в ошибки сервиса.
// Клиентские случаи логируются как Warn, сбои хранилища — как Error.
func storageErr(lg *slog.Logger, call string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrNotFoundObject):
		lg.Warn("not found", "call", call)
		return ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn("already exists", "call", call)
		return ErrAlreadyExists
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("rejected by storage", "call", call, "err", err)
		return ErrInvalidArgument
	default:
		lg.Error("storage error", "call", call, "err", err)
		return ErrInternal
	}
}
