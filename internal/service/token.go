package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/cache"
	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// generateAccessToken подписывает HS256 JWT с uid/email и стандартными claims.
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, email string, now time.Time) (string, error) {
	const op = "service/token/generateAccessToken"

	claims := accessClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Auth.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Auth.Audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// validateAccessToken проверяет подпись, issuer, audience и срок (leeway 5s).
func (s *Service) validateAccessToken(tokenStr string) (uuid.UUID, string, error) {
	const op = "service/token/validateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithAudience(s.cfg.Auth.Audience...),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, claims.Email, nil
}

// generateRefreshToken создаёт refresh-токен (32 случайных байта, base64url),
// сохраняет его хэш и кладёт запись в кэш. При коллизии хэша повторяет попытку.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const (
		op          = "service/token/generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}

		plain := base64.RawURLEncoding.EncodeToString(b)
		hash := hashRefresh(plain)

		now := time.Now().UTC()
		token := &models.RefreshToken{
			RefreshTokenHash: hash,
			UserID:           userID,
			CreatedAt:        now,
			ExpiresAt:        now.Add(s.cfg.Auth.RefreshTokenTTL),
		}

		if err := s.storage.SaveRefreshToken(ctx, token); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}

		s.cacheRefresh(ctx, token)

		return plain, nil
	}

	lg.Error("refresh_collision_exceeded", slog.String("op", op))

	return "", fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// validateRefreshToken проверяет refresh-токен: сначала по кэшу, затем по БД.
func (s *Service) validateRefreshToken(ctx context.Context, plain string) (*models.RefreshToken, error) {
	const op = "service/token/validateRefreshToken"

	lg := log.From(ctx)

	if plain == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	hash := hashRefresh(plain)

	token, ok := s.cachedRefresh(ctx, hash)
	if !ok {
		var err error
		token, err = s.storage.RefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("refresh_lookup_not_found", slog.String("op", op))
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			lg.Error("refresh_lookup_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		s.cacheRefresh(ctx, token)
	}

	if token.Revoked {
		lg.Warn("refresh_revoked",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		lg.Warn("refresh_expired",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return token, nil
}

// cachedRefresh читает запись из кэша. Ошибки кэша не фатальны: идём в БД.
func (s *Service) cachedRefresh(ctx context.Context, hash string) (*models.RefreshToken, bool) {
	if s.rcache == nil {
		return nil, false
	}

	e, ok, err := s.rcache.Get(ctx, hash)
	if err != nil {
		log.From(ctx).Warn("refresh_cache_get_failed", slog.String("err", err.Error()))
		return nil, false
	}

	if !ok {
		return nil, false
	}

	return &models.RefreshToken{
		RefreshTokenHash: hash,
		UserID:           e.UserID,
		ExpiresAt:        e.ExpiresAt,
		Revoked:          e.Revoked,
	}, true
}

// cacheRefresh кладёт запись в кэш с TTL до истечения токена.
func (s *Service) cacheRefresh(ctx context.Context, t *models.RefreshToken) {
	if s.rcache == nil {
		return
	}

	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return
	}

	err := s.rcache.Set(ctx, t.RefreshTokenHash, &cache.RefreshEntry{
		UserID:    t.UserID,
		Revoked:   t.Revoked,
		ExpiresAt: t.ExpiresAt,
	}, ttl)
	if err != nil {
		log.From(ctx).Warn("refresh_cache_set_failed", slog.String("err", err.Error()))
	}
}
