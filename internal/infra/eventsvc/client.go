package eventsvc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/usecase/shared"
)

// DefaultAvailabilityPath is used when the configured template is empty.
const DefaultAvailabilityPath = "/events/{id}/availability"

// Client asks the Event service whether an event can be booked.
type Client struct {
	baseURL string
	path    string
	http    *http.Client
	cfg     config.EventServiceConfig
}

var _ shared.AvailabilityChecker = (*Client)(nil)

func NewClient(cfg config.EventServiceConfig) *Client {
	path := cfg.AvailabilityPath
	if path == "" {
		path = DefaultAvailabilityPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		path:    path,
		// outer bound in case a caller passes a context without deadline
		http: &http.Client{Timeout: 2 * cfg.Timeout},
		cfg:  cfg,
	}
}

// CheckAvailability returns (true, nil) on 200 and (false, nil) when the Event
// service answers with a definite client error. Everything else is an error
// marked with errs.ErrUpstreamUnavailable and must not be read as available.
func (c *Client) CheckAvailability(ctx context.Context, eventID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.baseURL + strings.ReplaceAll(c.path, "{id}", strconv.FormatInt(eventID, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errs.Mark(errs.Wrap(err, "build availability request"), errs.ErrUpstreamUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errs.Mark(errs.Wrapf(err, "event service request for event %d", eventID), errs.ErrUpstreamUnavailable)
	}
	defer func() {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case isTransientStatus(resp.StatusCode):
		slog.Warn("event service unavailable",
			"event_id", eventID,
			"status", resp.StatusCode)
		return false, errs.Mark(
			fmt.Errorf("event service returned %d for event %d", resp.StatusCode, eventID),
			errs.ErrUpstreamUnavailable,
		)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		slog.Debug("event not available",
			"event_id", eventID,
			"status", resp.StatusCode)
		return false, nil
	default:
		return false, errs.Mark(
			fmt.Errorf("unexpected event service status %d for event %d", resp.StatusCode, eventID),
			errs.ErrUpstreamUnavailable,
		)
	}
}

// 408 and 429 say nothing about the event itself.
func isTransientStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}
