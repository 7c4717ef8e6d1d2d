package health

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chat-api/internal/utils/apperrors"
)

// Status is the health of one dependency.
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusUnhealthy   Status = "unhealthy"
	StatusUnreachable Status = "unreachable"
	StatusUnavailable Status = "unavailable"
)

// Report is the composite health payload. The top level status is always
// healthy: the probe itself does not fail, it only reports degraded
// sub-statuses.
type Report struct {
	Status   Status `json:"status"`
	Model    string `json:"model"`
	Ollama   Status `json:"ollama"`
	Database Status `json:"database"`
}

// BackendProber lists the models available in the inference backend.
type BackendProber interface {
	ListModels(ctx context.Context) ([]string, error)
}

// StoreProber round trips the persistence store.
type StoreProber interface {
	Ping(ctx context.Context) error
}

// Service probes backend and store reachability independently of request
// handling.
type Service struct {
	backend         BackendProber
	store           StoreProber
	storeConfigured bool
	model           string
	probeTimeout    time.Duration
	log             zerolog.Logger
}

// NewService wires the health aggregator. storeConfigured distinguishes a
// store that was never configured from one that is failing its probe.
func NewService(backend BackendProber, store StoreProber, storeConfigured bool, model string, probeTimeout time.Duration, log zerolog.Logger) *Service {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Service{
		backend:         backend,
		store:           store,
		storeConfigured: storeConfigured,
		model:           model,
		probeTimeout:    probeTimeout,
		log:             log.With().Str("component", "health-service").Logger(),
	}
}

// Check runs both probes concurrently, each with its own time bound. One
// probe failing never affects the other.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Status: StatusHealthy,
		Model:  s.model,
	}

	var g errgroup.Group
	g.Go(func() error {
		probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()
		_, err := s.backend.ListModels(probeCtx)
		switch {
		case err == nil:
			report.Ollama = StatusHealthy
		case apperrors.IsType(err, apperrors.TypeBackendError):
			report.Ollama = StatusUnhealthy
		default:
			report.Ollama = StatusUnreachable
		}
		return nil
	})
	g.Go(func() error {
		if !s.storeConfigured {
			report.Database = StatusUnavailable
			return nil
		}
		probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()
		if err := s.store.Ping(probeCtx); err != nil {
			s.log.Debug().Err(err).Msg("store probe failed")
			report.Database = StatusUnhealthy
			return nil
		}
		report.Database = StatusHealthy
		return nil
	})
	_ = g.Wait()

	return report
}
