// errors стандартизирует ответы об ошибках HTTP API.
//
// Сервисные sentinel-ошибки сначала переводятся в gRPC-статус (FromService),
// затем код статуса маппится на HTTP (ToHTTP). Наружу уходят только короткий
// стабильный code и безопасное message, детали остаются в логах.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusClientClosedRequest — нестандартный код "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиента.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект ответа.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// FromService переводит ошибку сервиса в gRPC-статус.
//   - ErrInvalidArgument/ErrInvalidEmail/ErrWeakPassword/ErrEmptyPassword -> InvalidArgument;
//   - ErrVideoTooLong -> FailedPrecondition;
//   - ErrNotFound -> NotFound;
//   - ErrAlreadyExists/ErrEmailTaken -> AlreadyExists;
//   - ErrForbidden -> PermissionDenied;
//   - ErrUnauthenticated, ошибки credentials/токенов -> Unauthenticated;
//   - ErrUnavailable -> Unavailable;
//   - отмена/дедлайн контекста -> Canceled/DeadlineExceeded;
//   - уже готовый статус возвращается как есть, прочее -> Internal.
func FromService(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrVideoTooLong):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyExists), errors.Is(err, service.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
// nil и ошибки без статуса дают 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	httpStatus, code, msg := baseFromGRPC(st.Code())

	return httpStatus, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError пишет ошибку сервиса (или готовый статус) в ответ.
// request_id берётся из X-Request-Id запроса.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(FromService(err))

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromGRPC — таблица gRPC -> HTTP/код/сообщение.
func baseFromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists", "already exists"
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed, "failed_precondition", "failed precondition"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case codes.PermissionDenied:
		return http.StatusForbidden, "permission_denied", "permission denied"
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests, "resource_exhausted", "resource exhausted"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
