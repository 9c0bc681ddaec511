//go:build unit || e2e

package fakes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// EventService mimics GET /events/{id}/availability of the event catalog.
// Unknown ids answer 404; SetDown makes every call fail with 503.
type EventService struct {
	Server *httptest.Server

	mu        sync.Mutex
	available map[int64]bool
	down      bool
	calls     atomic.Int64
}

func NewEventService() *EventService {
	es := &EventService{available: map[int64]bool{}}
	es.Server = httptest.NewServer(http.HandlerFunc(es.serve))
	return es
}

func (es *EventService) URL() string { return es.Server.URL }

func (es *EventService) Close() { es.Server.Close() }

func (es *EventService) SetAvailable(ids ...int64) {
	es.mu.Lock()
	defer es.mu.Unlock()
	for _, id := range ids {
		es.available[id] = true
	}
}

func (es *EventService) SetDown(down bool) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.down = down
}

// Reset forgets every event, brings the service up and zeroes the call count.
func (es *EventService) Reset() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.available = map[int64]bool{}
	es.down = false
	es.calls.Store(0)
}

func (es *EventService) Calls() int64 { return es.calls.Load() }

func (es *EventService) serve(w http.ResponseWriter, r *http.Request) {
	es.calls.Add(1)

	es.mu.Lock()
	down := es.down
	es.mu.Unlock()
	if down {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/events/")
	raw, isAvailability := strings.CutSuffix(rest, "/availability")
	if !ok || !isAvailability || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	es.mu.Lock()
	found := es.available[id]
	es.mu.Unlock()
	if !found {
		http.Error(w, `{"error":"Event not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"event_id":%d,"available":true}`, id)
}
