package httpclients

import (
	"context"
	"time"

	"resty.dev/v3"

	"chat-api/internal/infrastructure/logger"
)

type httpClientStartsAt struct{}

// NewClient builds a resty client that logs every outbound request with
// latency and status.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		ctx := context.WithValue(r.Context(), httpClientStartsAt{}, time.Now())
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		startTime, _ := r.Request.Context().Value(httpClientStartsAt{}).(time.Time)
		latency := time.Since(startTime)

		log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Str("method", r.Request.RawRequest.Method).
			Str("path", r.Request.RawRequest.URL.Path).
			Dur("latency", latency).
			Msg("HTTP client request")
		return nil
	})
	return client
}
