// middleware содержит net/http-мидлвары API: recover, request id,
// логирование, аутентификация, таймаут и метрики.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxUserID
)

// RequestIDFrom возвращает id запроса, выставленный RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// UserIDFrom возвращает id аутентифицированного пользователя или uuid.Nil.
func UserIDFrom(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxUserID).(uuid.UUID)
	return id
}

// WithUserID кладёт id пользователя в контекст.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserID, id)
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.count += n

	return n, err
}

// code — итоговый статус; 200, если обработчик ничего не записал.
func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}

	return w.status
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}

	return &statusWriter{ResponseWriter: w}
}
