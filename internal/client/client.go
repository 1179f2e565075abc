// client — HTTP-клиент REST API elas-no-jogo. Реализует источники данных
// ленты (feed.VideoSource, feed.ViewCounter, feed.LikeStore).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/dto"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
	"github.com/google/uuid"
)

// ErrUnauthenticated — API ответил 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError — ошибка из единого конверта ответа API.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status=%d code=%s message=%q request_id=%s", e.Status, e.Code, e.Message, e.RequestID)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}

	return nil
}

// Options — настройки клиента.
type Options struct {
	// BaseURL — адрес API вместе с базовым путём, например http://localhost:8080/api/v1.
	BaseURL string
	// Token — access-токен; пустой — анонимные запросы.
	Token string
	// Following — LoadPage читает ленту подписок вместо глобальной.
	Following bool
	HTTP      *http.Client
}

// Client — клиент API.
type Client struct {
	base      string
	token     string
	following bool
	http      *http.Client
}

// New создаёт клиента.
func New(opts Options) (*Client, error) {
	const op = "client/New"

	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, opts.BaseURL)
	}

	hc := opts.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		base:      strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		following: opts.Following,
		http:      hc,
	}, nil
}

// LoadPage загружает страницу глобальной ленты или ленты подписок.
func (c *Client) LoadPage(ctx context.Context, page, pageSize int) (*models.Page, error) {
	const op = "client/LoadPage"

	path := "/videos"
	if c.following {
		path = "/feed/following"
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out dto.VideoPage
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := out.Model()
	if err != nil {
		return nil, fmt.Errorf("%s: decode page: %w", op, err)
	}

	return p, nil
}

// IncrementViews засчитывает просмотр видео.
func (c *Client) IncrementViews(ctx context.Context, videoID uuid.UUID) error {
	const op = "client/IncrementViews"

	if err := c.do(ctx, http.MethodPost, "/videos/"+videoID.String()+"/views", nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsLiked возвращает отметку текущего пользователя. Пользователь определяется
// токеном клиента, userID только для совместимости с feed.LikeStore.
func (c *Client) IsLiked(ctx context.Context, videoID, _ uuid.UUID) (bool, error) {
	const op = "client/IsLiked"

	var out dto.LikeState
	if err := c.do(ctx, http.MethodGet, "/videos/"+videoID.String()+"/like", nil, &out); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return out.Liked, nil
}

// ToggleLike переключает лайк текущего пользователя.
func (c *Client) ToggleLike(ctx context.Context, videoID, _ uuid.UUID) (models.LikeState, error) {
	const op = "client/ToggleLike"

	var out dto.LikeState
	if err := c.do(ctx, http.MethodPost, "/videos/"+videoID.String()+"/like", nil, &out); err != nil {
		return models.LikeState{}, fmt.Errorf("%s: %w", op, err)
	}

	return out.Model(), nil
}

// Me проверяет токен клиента и возвращает id пользователя.
func (c *Client) Me(ctx context.Context) (uuid.UUID, error) {
	const op = "client/Me"

	if c.token == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	var out dto.AuthValidateResponse
	if err := c.do(ctx, http.MethodPost, "/auth/validate", dto.AuthValidateRequest{AccessToken: c.token}, &out); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.Parse(out.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: decode user_id: %w", op, err)
	}

	return id, nil
}

// do выполняет запрос; ответ вне 2xx разбирается как конверт ошибки.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("new_request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}

		var env apierrors.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}

		log.From(ctx).Debug("api_error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", apiErr.Status),
			slog.String("code", apiErr.Code),
		)

		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}
