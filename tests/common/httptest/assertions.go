//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertSuccessResponse checks the status and, for 2xx, decodes the body into target when it is non-nil.
func AssertSuccessResponse(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, target any) {
	t.Helper()

	if !assert.Equalf(t, wantStatus, rec.Code, "unexpected status, body: %s", rec.Body.String()) {
		return
	}
	if target == nil || wantStatus < 200 || wantStatus >= 300 {
		return
	}
	assert.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), target), "decode body: %s", rec.Body.String())
}

// AssertErrorResponse checks the status and the {"error","code"} body.
// Empty expectations are not compared.
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode, wantMsg string) {
	t.Helper()

	assert.Equalf(t, wantStatus, rec.Code, "unexpected status, body: %s", rec.Body.String())

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if !assert.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), &body), "decode error body: %s", rec.Body.String()) {
		return
	}
	if wantCode != "" {
		assert.Equal(t, wantCode, body.Code, "error code")
	}
	if wantMsg != "" {
		assert.Contains(t, body.Error, wantMsg, "error message")
	}
}
