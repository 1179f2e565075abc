package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestStartTokenJanitor_RunsImmediatelyAndStops(t *testing.T) {
	svc, m := newSvc(t)

	calls := make(chan struct{}, 16)
	m.st.EXPECT().DeleteExpiredTokens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (int64, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return 1, nil
		}).MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- svc.StartTokenJanitor(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("janitor did not run")
		}
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestStartTokenJanitor_ErrorsAreLogged(t *testing.T) {
	svc, m := newSvc(t)

	ctx, cancel := context.WithCancel(context.Background())
	m.st.EXPECT().DeleteExpiredTokens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (int64, error) {
			cancel()
			return 0, errors.New("pg down")
		}).MinTimes(1)

	require.NoError(t, svc.StartTokenJanitor(ctx))
}

func TestStartTokenJanitor_BadInterval(t *testing.T) {
	svc, _ := newSvc(t)
	svc.cfg.Auth.CleanupInterval = 0

	require.Error(t, svc.StartTokenJanitor(context.Background()))
}
