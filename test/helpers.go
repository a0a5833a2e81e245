// Package test contains helpers needed in tests for multiple other packages
package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TmpFile returns the path to a database file in a temporary directory
// that is cleaned up after the test.
func TmpFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "backend.db")
}

// Request is a helper method to simplify making a HTTP request for tests.
func Request(t *testing.T, handler http.Handler, method, url string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	t.Helper()

	var byteBuffer *bytes.Buffer

	switch b := body.(type) {
	case string:
		byteBuffer = bytes.NewBufferString(b)
	case nil:
		byteBuffer = new(bytes.Buffer)
	default:
		byteStr, err := json.Marshal(body)
		if err != nil {
			assert.FailNow(t, "Request body could not be marshalled from struct input", err)
		}
		byteBuffer = bytes.NewBuffer(byteStr)
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, byteBuffer)
	req.Header.Set("Content-Type", "application/json")

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	handler.ServeHTTP(recorder, req)

	return *recorder
}

// AssertHTTPStatus verifies the HTTP status of a response.
func AssertHTTPStatus(t *testing.T, expected int, r *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, expected, r.Code, "HTTP status is wrong. Response body: %s", r.Body.String())
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v'", r.Body, reflect.TypeOf(target), err)
	}
}
