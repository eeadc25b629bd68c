package client

import (
	"context"
	"time"
)

// Settings carries what is needed to build a connected client
type Settings struct {
	APIKey            string
	Endpoint          string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// Factory creates connected clients; the CLI swaps it out in tests
type Factory func(ctx context.Context, settings Settings) (Client, error)

// NewStatsClient creates a YouTube data client from settings and connects it
func NewStatsClient(ctx context.Context, settings Settings) (Client, error) {
	opts := []Option{
		WithRequestTimeout(settings.RequestTimeout),
		WithRequestsPerSecond(settings.RequestsPerSecond),
	}
	if settings.Endpoint != "" {
		opts = append(opts, WithEndpoint(settings.Endpoint))
	}

	c, err := NewYouTubeDataClient(settings.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
