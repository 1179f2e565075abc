package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/pkg/log"
)

// SearchLocations возвращает подсказки мест по запросу.
// Запрос короче минимальной длины даёт пустой результат без обращения к геокодеру.
// Сбой кэша не прерывает поиск; сбой геокодера — ErrUnavailable.
func (s *Service) SearchLocations(ctx context.Context, query string) ([]models.Location, error) {
	const op = "service/locations/SearchLocations"

	q := normalizeText(query)

	lg := log.From(ctx).With("op", op, "query", q)

	if utf8.RuneCountInString(q) < s.cfg.Geocode.MinQueryLength {
		return []models.Location{}, nil
	}

	key := strings.ToLower(q)

	if s.lcache != nil {
		items, ok, err := s.lcache.Get(ctx, key)
		switch {
		case err != nil:
			lg.Warn("location cache get failed", "err", err)
		case ok:
			s.metrics.LocationLookup("cache")
			return items, nil
		}
	}

	if s.geocoder == nil {
		lg.Error("geocoder is not configured")
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	items, err := s.geocoder.Search(ctx, q)
	if err != nil {
		lg.Error("geocoder search failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	s.metrics.LocationLookup("geocoder")

	if items == nil {
		items = []models.Location{}
	}

	if s.lcache != nil {
		if err := s.lcache.Set(ctx, key, items); err != nil {
			lg.Warn("location cache set failed", "err", err)
		}
	}

	return items, nil
}
