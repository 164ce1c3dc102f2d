package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfviewer/internal/config"
	"pdfviewer/internal/document"
)

const origin = "http://localhost:3000"

var pdfBytes = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj << >> endobj\n%%EOF\n")

func minimalConfig(t *testing.T, withDocument bool) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Document.Path = filepath.Join(t.TempDir(), "test.pdf")
	if withDocument {
		require.NoError(t, os.WriteFile(cfg.Document.Path, pdfBytes, 0o644))
	}
	return cfg
}

func do(t *testing.T, app *fiber.App, method, path string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestNew_StatusRoute(t *testing.T) {
	app := New(Deps{Config: minimalConfig(t, true)})

	resp, body := do(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "PDF Viewer Backend is running!", got["message"])
	assert.Len(t, got, 1)
}

func TestNew_DocumentRoute(t *testing.T) {
	app := New(Deps{Config: minimalConfig(t, true)})

	for i := 0; i < 2; i++ {
		resp, body := do(t, app, http.MethodGet, "/get-pdf", map[string]string{"Origin": origin})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="MySample.pdf"`)
		assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, pdfBytes, body)
	}
}

func TestNew_MissingDocumentIsJSON404WithCORS(t *testing.T) {
	app := New(Deps{Config: minimalConfig(t, false)})

	resp, body := do(t, app, http.MethodGet, "/get-pdf", map[string]string{"Origin": origin})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.NotContains(t, string(body), "%PDF")

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, http.StatusNotFound, envelope.Error.Code)
}

func TestNew_UnroutedRequestsAre404(t *testing.T) {
	app := New(Deps{Config: minimalConfig(t, true)})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/does-not-exist"},
		{http.MethodPost, "/"},
		{http.MethodDelete, "/get-pdf"},
		{http.MethodGet, "/ops/monitor"},
	}
	for _, tc := range cases {
		resp, _ := do(t, app, tc.method, tc.path, map[string]string{"Origin": origin})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"), "%s %s", tc.method, tc.path)
	}
}

func TestNew_PreflightDoesNoFileIO(t *testing.T) {
	// No document on disk: if the preflight reached the handler it would 404.
	app := New(Deps{Config: minimalConfig(t, false)})

	resp, body := do(t, app, http.MethodOptions, "/get-pdf", map[string]string{
		"Origin":                        origin,
		"Access-Control-Request-Method": http.MethodGet,
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestNew_DisallowedOrigin(t *testing.T) {
	app := New(Deps{Config: minimalConfig(t, true)})

	resp, body := do(t, app, http.MethodGet, "/get-pdf", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, pdfBytes, body)
}

func TestNew_ReadinessTracksDocument(t *testing.T) {
	cfg := minimalConfig(t, false)
	app := New(Deps{Config: cfg, Locator: document.NewLocator(cfg)})

	resp, _ := do(t, app, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, os.WriteFile(cfg.Document.Path, pdfBytes, 0o644))

	resp, _ = do(t, app, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_CustomRouteAndMonitor(t *testing.T) {
	cfg := minimalConfig(t, true)
	cfg.Document.Route = "/documents/current"
	cfg.Server.EnableMonitor = true
	app := New(Deps{Config: cfg})

	resp, body := do(t, app, http.MethodGet, "/documents/current", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pdfBytes, body)

	resp, _ = do(t, app, http.MethodGet, "/get-pdf", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/ops/monitor", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
