package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOk(t *testing.T) {
	w := httptest.NewRecorder()
	WriteOk(w, map[string]string{"hello": "world"})

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.Empty(t, res.Kind)
	assert.Empty(t, res.Message)
}

func TestWriteUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	WriteUnauthorized(w, "authentication error")

	assert.Equal(t, 401, w.Code)

	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, "authentication", res.Kind)
	assert.Equal(t, "authentication error", res.Message)
	assert.Nil(t, res.Data)
}

func TestResultTagging(t *testing.T) {
	ok := Ok(42)
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, 42, ok.Data)

	e := Err("conflict", "already exists")
	assert.Equal(t, "error", e.Status)
	assert.Equal(t, "conflict", e.Kind)
	assert.Nil(t, e.Data)
}
