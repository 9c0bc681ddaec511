//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PerformRequest encodes body as JSON and serves it through handler. A nil body sends nothing.
func PerformRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	if body == nil {
		return serve(handler, httptest.NewRequest(method, path, http.NoBody))
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err, "encode request body")
	return serve(handler, jsonRequest(method, path, strings.NewReader(string(payload))))
}

// PerformRawRequest sends raw unchanged, for malformed JSON cases.
func PerformRawRequest(t *testing.T, handler http.Handler, method, path, raw string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(handler, jsonRequest(method, path, strings.NewReader(raw)))
}

func jsonRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
