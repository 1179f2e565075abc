// handlers — REST-обработчики API поверх service.Service.
// Ошибки пишутся через errors.WriteError; id пользователя берётся из контекста
// (middleware.AuthBearer), путь и query разбираются здесь.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(value)
}

// statusErrorInvalidArgument — локальная ошибка разбора запроса.
func statusErrorInvalidArgument() error {
	return status.Error(codes.InvalidArgument, "invalid argument")
}

// pathUUID разбирает uuid из параметра пути.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, statusErrorInvalidArgument()
	}

	return id, nil
}

// listOptions читает page и page_size; пустые значения оставляют нули,
// нормализацию делает сервис.
func listOptions(r *http.Request) (models.ListOptions, error) {
	var opts models.ListOptions

	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxPage {
			return opts, statusErrorInvalidArgument()
		}
		opts.Page = n
	}

	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, statusErrorInvalidArgument()
		}
		opts.PageSize = n
	}

	return opts, nil
}
