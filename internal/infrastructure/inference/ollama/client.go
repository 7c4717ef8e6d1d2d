package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"chat-api/internal/infrastructure/metrics"
	"chat-api/internal/utils/apperrors"
	"chat-api/internal/utils/httpclients"
)

// Fixed decoding parameters for non-streaming generation.
const (
	temperature = 0.7
	topP        = 0.9
	numPredict  = 512
)

const (
	defaultGenerateTimeout = 120 * time.Second
	defaultPullTimeout     = 10 * time.Minute
)

// Timeouts bounds the client's calls. Generation gets a generous bound since
// local inference can be slow; pulling a model can take far longer.
type Timeouts struct {
	Generate time.Duration
	Pull     time.Duration
}

// Client talks to an Ollama backend over its native HTTP API.
type Client struct {
	client   *resty.Client
	timeouts Timeouts
	log      zerolog.Logger
}

// NewClient creates an Ollama client for the given base URL.
func NewClient(baseURL string, timeouts Timeouts, log zerolog.Logger) *Client {
	if timeouts.Generate <= 0 {
		timeouts.Generate = defaultGenerateTimeout
	}
	if timeouts.Pull <= 0 {
		timeouts.Pull = defaultPullTimeout
	}

	client := httpclients.NewClient("ollama")
	client.SetBaseURL(baseURL)

	return &Client{
		client:   client,
		timeouts: timeouts,
		log:      log.With().Str("component", "ollama-client").Logger(),
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// Generate sends the assembled prompt for non-streaming completion. A
// non-success status maps to backend_error, a transport failure or timeout
// to backend_unavailable. No retries.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Generate)
	defer cancel()

	start := time.Now()
	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  model,
			Prompt: prompt,
			Stream: false,
			Options: generateOptions{
				Temperature: temperature,
				TopP:        topP,
				NumPredict:  numPredict,
			},
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues(string(apperrors.TypeBackendUnavailable)).Inc()
		return "", apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendUnavailable, "inference backend unreachable", err)
	}
	if resp.IsError() {
		metrics.BackendErrorsTotal.WithLabelValues(string(apperrors.TypeBackendError)).Inc()
		return "", apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendError,
			fmt.Sprintf("inference backend returned %s", resp.Status()), nil)
	}

	metrics.GenerationDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	return strings.TrimSpace(out.Response), nil
}

// ListModels returns the names of the models available in the backend. The
// caller bounds the context; failures are classified like Generate's.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out tagsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/tags")
	if err != nil {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendUnavailable, "inference backend unreachable", err)
	}
	if resp.IsError() {
		return nil, apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendError,
			fmt.Sprintf("inference backend returned %s", resp.Status()), nil)
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Pull asks the backend to fetch the given model so the first chat request
// does not pay the download cost.
func (c *Client) Pull(ctx context.Context, model string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Pull)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(pullRequest{Name: model, Stream: false}).
		Post("/api/pull")
	if err != nil {
		return apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendUnavailable, "inference backend unreachable", err)
	}
	if resp.IsError() {
		return apperrors.New(apperrors.LayerInfrastructure, apperrors.TypeBackendError,
			fmt.Sprintf("model pull returned %s", resp.Status()), nil)
	}
	return nil
}
