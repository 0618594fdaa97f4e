package api

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"osplits/internal/config"
	"osplits/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// WinSplitsClient downloads results pages.
type WinSplitsClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  zerolog.Logger
}

func NewWinSplitsClient(cfg *config.Config, logger zerolog.Logger) *WinSplitsClient {
	return &WinSplitsClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.FetchTimeout,
			WriteTimeout:        cfg.FetchTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: cfg.MaxUploadBytes,
		},
		timeout: cfg.FetchTimeout,
		logger:  logger,
	}
}

// Fetch downloads and parses the results page at rawURL.
func (c *WinSplitsClient) Fetch(ctx context.Context, rawURL string) (*domain.RaceInput, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u.String())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/html")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	start := time.Now()
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u.Host, err)
	}

	c.logger.Debug().
		Str("url", u.String()).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("results page fetched")

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("results page error: %d", resp.StatusCode())
	}

	input, err := ParseWinSplits(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}
	input.Source = u.String()
	return input, nil
}

// URLSource is a results page to be fetched on demand.
type URLSource struct {
	Client     *WinSplitsClient
	URL        string
	CourseName string
}

func (s URLSource) ProduceRaceInput(ctx context.Context) (*domain.RaceInput, error) {
	input, err := s.Client.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	input.CourseName = s.CourseName
	return input, nil
}
