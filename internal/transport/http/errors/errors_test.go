package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromService_Mapping(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("service/x/Op: %w", err) }

	tcs := []struct {
		name string
		in   error
		want codes.Code
	}{
		{"invalid_argument", wrap(service.ErrInvalidArgument), codes.InvalidArgument},
		{"invalid_email", wrap(service.ErrInvalidEmail), codes.InvalidArgument},
		{"weak_password", wrap(service.ErrWeakPassword), codes.InvalidArgument},
		{"empty_password", wrap(service.ErrEmptyPassword), codes.InvalidArgument},
		{"too_long", wrap(service.ErrVideoTooLong), codes.FailedPrecondition},
		{"not_found", wrap(service.ErrNotFound), codes.NotFound},
		{"exists", wrap(service.ErrAlreadyExists), codes.AlreadyExists},
		{"email_taken", wrap(service.ErrEmailTaken), codes.AlreadyExists},
		{"forbidden", wrap(service.ErrForbidden), codes.PermissionDenied},
		{"unauth", wrap(service.ErrUnauthenticated), codes.Unauthenticated},
		{"credentials", wrap(service.ErrInvalidCredentials), codes.Unauthenticated},
		{"token_invalid", wrap(service.ErrInvalidToken), codes.Unauthenticated},
		{"token_expired", wrap(service.ErrTokenExpired), codes.Unauthenticated},
		{"token_revoked", wrap(service.ErrTokenRevoked), codes.Unauthenticated},
		{"unavailable", wrap(service.ErrUnavailable), codes.Unavailable},
		{"deadline", wrap(context.DeadlineExceeded), codes.DeadlineExceeded},
		{"canceled", wrap(context.Canceled), codes.Canceled},
		{"internal", wrap(service.ErrInternal), codes.Internal},
		{"unknown", fmt.Errorf("boom"), codes.Internal},
		{"status_passthrough", status.Error(codes.ResourceExhausted, "x"), codes.ResourceExhausted},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, status.Code(FromService(tc.in)))
		})
	}

	require.NoError(t, FromService(nil))
}

func TestFromService_InternalHidesDetails(t *testing.T) {
	err := FromService(fmt.Errorf("pgx: password authentication failed for user elas"))

	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, "internal server error", st.Message())
}

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", status.Error(codes.InvalidArgument, "x"), http.StatusBadRequest, "invalid_argument"},
		{"not_found", status.Error(codes.NotFound, "x"), http.StatusNotFound, "not_found"},
		{"already_exists", status.Error(codes.AlreadyExists, "x"), http.StatusConflict, "already_exists"},
		{"failed_prec", status.Error(codes.FailedPrecondition, "x"), http.StatusPreconditionFailed, "failed_precondition"},
		{"unauth", status.Error(codes.Unauthenticated, "x"), http.StatusUnauthorized, "unauthenticated"},
		{"perm_denied", status.Error(codes.PermissionDenied, "x"), http.StatusForbidden, "permission_denied"},
		{"res_exhausted", status.Error(codes.ResourceExhausted, "x"), http.StatusTooManyRequests, "resource_exhausted"},
		{"canceled", status.Error(codes.Canceled, "x"), StatusClientClosedRequest, "canceled"},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"unavailable", status.Error(codes.Unavailable, "x"), http.StatusServiceUnavailable, "unavailable"},
		{"unimplemented", status.Error(codes.Unimplemented, "x"), http.StatusNotImplemented, "unimplemented"},
		{"internal", status.Error(codes.Internal, "x"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilAndPlainErrors(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)

	gotStatus, resp = ToHTTP(fmt.Errorf("plain"))
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_EnvelopeWithRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/videos/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, fmt.Errorf("op: %w", service.ErrForbidden))

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "permission_denied", body.Error.Code)
	require.Equal(t, "permission denied", body.Error.Message)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
