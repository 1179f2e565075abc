// geocode — поиск мест через Nominatim (OpenStreetMap) для подсказок локаций.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/config"
	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// Client выполняет запросы /search к Nominatim.
// HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
type Client struct {
	client *http.Client
	cfg    config.GeocodeConfig
}

// New создаёт клиента Nominatim.
func New(client *http.Client, cfg config.GeocodeConfig) *Client {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	if cfg.Limit <= 0 {
		cfg.Limit = 6
	}

	if cfg.MaxSegments <= 0 {
		cfg.MaxSegments = 3
	}

	return &Client{client: client, cfg: cfg}
}

// place — элемент ответа Nominatim (format=json). lat/lon приходят строками.
type place struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search ищет места по запросу. Пустые display_name пропускаются.
func (c *Client) Search(ctx context.Context, query string) ([]models.Location, error) {
	const op = "geocode/Search"

	lg := log.From(ctx)

	q := url.Values{}
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	q.Set("q", query)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.cfg.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", c.cfg.AcceptLanguage)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		lg.Warn("geocode_http_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Location, 0, len(places))
	for _, p := range places {
		full := strings.TrimSpace(p.DisplayName)
		if full == "" {
			continue
		}

		lat, _ := strconv.ParseFloat(p.Lat, 64)
		lon, _ := strconv.ParseFloat(p.Lon, 64)

		out = append(out, models.Location{
			ID:        strconv.FormatInt(p.PlaceID, 10),
			Label:     ShortLabel(full, c.cfg.MaxSegments),
			FullLabel: full,
			Lat:       lat,
			Lon:       lon,
		})
	}

	return out, nil
}

// ShortLabel оставляет первые n сегментов адреса, разделённых запятыми.
func ShortLabel(full string, n int) string {
	parts := strings.Split(full, ",")
	segs := make([]string, 0, n)

	for _, p := range parts {
		if len(segs) == n {
			break
		}

		if p = strings.TrimSpace(p); p != "" {
			segs = append(segs, p)
		}
	}

	return strings.Join(segs, ", ")
}
