//go:build unit

package eventsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.EventServiceConfig{BaseURL: srv.URL + "/", Timeout: timeout})
}

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantAvailable bool
		wantUpstream  bool
	}{
		{name: "event exists", status: http.StatusOK, wantAvailable: true},
		{name: "event missing", status: http.StatusNotFound},
		{name: "event gone", status: http.StatusGone},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "server error", status: http.StatusInternalServerError, wantUpstream: true},
		{name: "bad gateway", status: http.StatusBadGateway, wantUpstream: true},
		{name: "rate limited", status: http.StatusTooManyRequests, wantUpstream: true},
		{name: "no content is not a yes", status: http.StatusNoContent, wantUpstream: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath atomic.Value
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath.Store(r.URL.Path)
				w.WriteHeader(tt.status)
			}, time.Second)

			available, err := c.CheckAvailability(context.Background(), 42)

			assert.Equal(t, "/events/42/availability", gotPath.Load())
			assert.Equal(t, tt.wantAvailable, available)
			if tt.wantUpstream {
				assert.True(t, errs.Is(err, errs.ErrUpstreamUnavailable), "unexpected error: %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckAvailabilityPath(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantPath string
	}{
		{name: "default template", template: "", wantPath: "/events/7/availability"},
		{name: "catalog read route", template: "/events/{id}", wantPath: "/events/7"},
		{name: "template without leading slash", template: "v2/events/{id}/availability", wantPath: "/v2/events/7/availability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// only the expected route answers 200; anything else is a 404 "not available"
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != tt.wantPath {
					http.NotFound(w, r)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			t.Cleanup(srv.Close)

			c := NewClient(config.EventServiceConfig{BaseURL: srv.URL, Timeout: time.Second, AvailabilityPath: tt.template})
			available, err := c.CheckAvailability(context.Background(), 7)

			require.NoError(t, err)
			assert.True(t, available)
		})
	}
}

func TestCheckAvailabilityTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}, 50*time.Millisecond)
	defer close(release)

	start := time.Now()
	available, err := c.CheckAvailability(context.Background(), 1)

	assert.False(t, available)
	assert.True(t, errs.Is(err, errs.ErrUpstreamUnavailable))
	assert.Less(t, time.Since(start), time.Second)
}

func TestCheckAvailabilityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.EventServiceConfig{BaseURL: url, Timeout: time.Second})
	available, err := c.CheckAvailability(context.Background(), 1)

	require.Error(t, err)
	assert.False(t, available)
	assert.True(t, errs.Is(err, errs.ErrUpstreamUnavailable))
}
