// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alchemorsel/kitchen/internal/domain/pantry"
	"github.com/alchemorsel/kitchen/internal/domain/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PantryAssertions provides pantry-specific assertion methods
type PantryAssertions struct {
	t *testing.T
}

// NewPantryAssertions creates a new pantry assertions helper
func NewPantryAssertions(t *testing.T) *PantryAssertions {
	return &PantryAssertions{t: t}
}

// HasItem asserts exactly one row carries the name (case-insensitively) and returns it
func (pa *PantryAssertions) HasItem(items []*pantry.Item, name string, msgAndArgs ...interface{}) *pantry.Item {
	pa.t.Helper()
	var found []*pantry.Item
	for _, it := range items {
		if quantity.NameKey(it.Name) == quantity.NameKey(name) {
			found = append(found, it)
		}
	}
	require.Len(pa.t, found, 1, msgAndArgs...)
	return found[0]
}

// HasNoItem asserts no row carries the name
func (pa *PantryAssertions) HasNoItem(items []*pantry.Item, name string, msgAndArgs ...interface{}) {
	pa.t.Helper()
	for _, it := range items {
		assert.NotEqual(pa.t, quantity.NameKey(name), quantity.NameKey(it.Name), msgAndArgs...)
	}
}

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the HTTP status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expectedCode int, msgAndArgs ...interface{}) {
	ha.t.Helper()
	require.NotNil(ha.t, rec, "Response should not be nil")
	assert.Equal(ha.t, expectedCode, rec.Code, msgAndArgs...)
}

// JSONResponse asserts that the response is valid JSON and unmarshals it
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}) {
	ha.t.Helper()
	contentType := rec.Header().Get("Content-Type")
	assert.True(ha.t, strings.Contains(contentType, "application/json"),
		"Response should have JSON content type, got: %s", contentType)

	err := json.Unmarshal(rec.Body.Bytes(), target)
	require.NoError(ha.t, err, "Response should be valid JSON")
}

// ErrorCode asserts the error envelope carries the given code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, expectedCode string) {
	ha.t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	ha.JSONResponse(rec, &body)
	assert.False(ha.t, body.Success)
	assert.Equal(ha.t, expectedCode, body.Error.Code)
}
