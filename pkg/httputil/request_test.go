package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormOrJSONValue(t *testing.T) {
	t.Run("urlencoded form", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/mode-switch", strings.NewReader("mode=dark"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		assert.Equal(t, "dark", FormOrJSONValue(req, "mode"))
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/mode-switch", strings.NewReader(`{"mode":"dark"}`))
		req.Header.Set("Content-Type", "application/json")

		assert.Equal(t, "dark", FormOrJSONValue(req, "mode"))
	})

	t.Run("json with charset parameter", func(t *testing.T) {
		// fetch() and many HTTP clients send the media type with parameters;
		// the body must still be read as JSON, not as an empty form.
		req := httptest.NewRequest("POST", "/mode-switch", strings.NewReader(`{"mode":"dark"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		assert.Equal(t, "dark", FormOrJSONValue(req, "mode"))
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/mode-switch", strings.NewReader(`{"mode":"dark"}`))
		req.Header.Set("Content-Type", "application/json")

		assert.Empty(t, FormOrJSONValue(req, "lang"))
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/mode-switch", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")

		assert.Empty(t, FormOrJSONValue(req, "mode"))
	})
}
