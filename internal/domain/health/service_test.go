package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat-api/internal/utils/apperrors"
)

type fakeBackend struct {
	err   error
	calls int
}

func (b *fakeBackend) ListModels(ctx context.Context) ([]string, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return []string{"tinyllama"}, nil
}

type fakeStoreProber struct {
	err   error
	calls int
}

func (s *fakeStoreProber) Ping(ctx context.Context) error {
	s.calls++
	return s.err
}

func newTestHealthService(backend *fakeBackend, store *fakeStoreProber, storeConfigured bool) *Service {
	return NewService(backend, store, storeConfigured, "tinyllama", time.Second, zerolog.Nop())
}

func TestCheckAllHealthy(t *testing.T) {
	svc := newTestHealthService(&fakeBackend{}, &fakeStoreProber{}, true)

	report := svc.Check(context.Background())
	if report.Status != StatusHealthy {
		t.Fatalf("top level status must be healthy, got %s", report.Status)
	}
	if report.Model != "tinyllama" {
		t.Fatalf("unexpected model: %s", report.Model)
	}
	if report.Ollama != StatusHealthy || report.Database != StatusHealthy {
		t.Fatalf("unexpected sub-statuses: %+v", report)
	}
}

func TestCheckProbesAreIndependent(t *testing.T) {
	backend := &fakeBackend{}
	store := &fakeStoreProber{err: errors.New("connection refused")}
	svc := newTestHealthService(backend, store, true)

	report := svc.Check(context.Background())
	if report.Database != StatusUnhealthy {
		t.Fatalf("store probe failure should report unhealthy, got %s", report.Database)
	}
	if report.Ollama != StatusHealthy {
		t.Fatalf("backend status must not be affected by the store probe, got %s", report.Ollama)
	}
	if report.Status != StatusHealthy {
		t.Fatalf("probe itself must not fail, got %s", report.Status)
	}
}

func TestCheckBackendErrorStatus(t *testing.T) {
	backend := &fakeBackend{err: apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendError, "backend returned 500", nil)}
	svc := newTestHealthService(backend, &fakeStoreProber{}, true)

	report := svc.Check(context.Background())
	if report.Ollama != StatusUnhealthy {
		t.Fatalf("failure status from a reachable backend should report unhealthy, got %s", report.Ollama)
	}
}

func TestCheckBackendUnreachable(t *testing.T) {
	backend := &fakeBackend{err: apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendUnavailable, "unreachable", errors.New("dial tcp: refused"))}
	svc := newTestHealthService(backend, &fakeStoreProber{}, true)

	report := svc.Check(context.Background())
	if report.Ollama != StatusUnreachable {
		t.Fatalf("transport failure should report unreachable, got %s", report.Ollama)
	}
}

func TestCheckStoreNotConfigured(t *testing.T) {
	store := &fakeStoreProber{}
	svc := newTestHealthService(&fakeBackend{}, store, false)

	report := svc.Check(context.Background())
	if report.Database != StatusUnavailable {
		t.Fatalf("unconfigured store should report unavailable, got %s", report.Database)
	}
	if store.calls != 0 {
		t.Fatalf("unconfigured store must not be probed, got %d calls", store.calls)
	}
}
