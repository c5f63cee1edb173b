package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, false, false)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Contains(t, line, "time")

	buf.Reset()
	dl := Setup(&buf, true, false)
	dl.Debug().Msg("debug")
	assert.Contains(t, buf.String(), `"debug"`)
}

func TestRequests(t *testing.T) {
	var buf bytes.Buffer
	h := Requests(Setup(&buf, false, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/venues", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "/venues", line["path"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "venuebook.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("x\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
