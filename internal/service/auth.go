package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/RickkCastro/ElasNoJogo/pkg/redact"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя и выдаёт пару токенов.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/RegisterUser"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	normEmail, err := validateEmail(email)
	if err != nil {
		lg.Warn("invalid email")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		lg.Warn("weak password")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		lg.Warn("email taken")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		lg.Error("storage error on UserByEmail", "err", err)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Warn("email taken on save")
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		lg.Error("storage error on SaveUser", "err", err)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user registered", "user_id", user.ID.String())

	return s.issueTokenPair(ctx, user, "")
}

// LoginUser выполняет вход по email+пароль.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/LoginUser"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	normEmail, err := validateEmail(email)
	if err != nil || password == "" {
		lg.Warn("invalid credentials format")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("user not found")
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("storage error on UserByEmail", "err", err)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !checkPassword(user.PasswordHash, password) {
		lg.Warn("password mismatch")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.issueTokenPair(ctx, user, "")
}

// RefreshToken ротирует пару токенов: старый refresh отзывается, выдаётся новая пара.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		log.From(ctx).Error("storage error on UserByID", "op", op, "err", err)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return s.issueTokenPair(ctx, user, hashRefresh(refreshToken))
}

// RevokeToken отзывает refresh-токен (logout).
func (s *Service) RevokeToken(ctx context.Context, refreshToken string) error {
	const op = "service/auth/RevokeToken"

	if refreshToken == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := s.revokeRefresh(ctx, hashRefresh(refreshToken)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ValidateToken проверяет access-токен и возвращает id и email пользователя.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, error) {
	const op = "service/auth/ValidateToken"

	uid, email, err := s.validateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return uid, email, nil
}

// revokeRefresh атомарно отзывает токен в БД и помечает его в кэше.
func (s *Service) revokeRefresh(ctx context.Context, hash string) error {
	revoked, err := s.storage.RevokeRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidToken
		}

		log.From(ctx).Error("storage error on RevokeRefreshToken", "err", err)
		return ErrInternal
	}

	if s.rcache != nil {
		if err := s.rcache.MarkRevoked(ctx, hash); err != nil {
			log.From(ctx).Warn("refresh_cache_mark_revoked_failed", "err", err)
		}
	}

	if !revoked {
		return ErrTokenRevoked
	}

	return nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", сначала атомарно отзывает старый refresh-токен.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldRefreshHash string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/issueTokenPair"

	now := time.Now().UTC()

	if oldRefreshHash != "" {
		if err := s.revokeRefresh(ctx, oldRefreshHash); err != nil {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	access, err := s.generateAccessToken(ctx, user.ID, user.Email, now)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    plain,
		AccessExpiresAt: now.Add(s.cfg.Auth.AccessTokenTTL),
	}, user.ID, nil
}

// hashRefresh — sha256 от refresh-токена в base64url; в БД хранится только он.
func hashRefresh(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service/auth/hashPassword"

	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(b), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет формат email, обрезает пробелы и приводит к нижнему регистру.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(email), nil
}

// validatePassword: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	if pw == "" {
		return ErrEmptyPassword
	}

	if len([]rune(pw)) < 8 {
		return ErrWeakPassword
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return ErrWeakPassword
	}

	return nil
}
