package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleFile_ExistingPage_ServedAsHTML(t *testing.T) {
	root := t.TempDir()
	postsDir := filepath.Join(root, "posts")
	require.NoError(t, os.MkdirAll(postsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "hello.html"), []byte("<h1>hi</h1>"), 0o644))

	srv := New(root, 0, 1)
	rec := httptest.NewRecorder()
	srv.handleFile(rec, httptest.NewRequest("GET", "/posts/hello.html", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "<h1>hi</h1>", rec.Body.String())
}

func TestHandleFile_MissingFile_404WithHTMLBody(t *testing.T) {
	srv := New(t.TempDir(), 0, 1)
	rec := httptest.NewRecorder()
	srv.handleFile(rec, httptest.NewRequest("GET", "/posts/nope.html", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "<h1>404 Not Found</h1>")
}

func TestHandleFile_DirectoryTraversal_Contained(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "secret.html")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	srv := New(root, 0, 1)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.URL.Path = "/../secret.html"
	srv.handleFile(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoggingMiddleware_LogsStatusAndMethod(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/missing.html", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	logged := buf.String()
	require.Contains(t, logged, "status=404")
	require.Contains(t, logged, "method=GET")
	require.Contains(t, logged, "path=/missing.html")
}

func TestRecoveryMiddleware_PanicBecomes500(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "boom")
}

func TestStart_PortConflict_RetriesNextPort(t *testing.T) {
	// Occupy a port, then ask the server to start on it.
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()
	takenPort := taken.Addr().(*net.TCPAddr).Port

	srv := New(t.TempDir(), takenPort, 20)
	require.NoError(t, srv.Start(context.Background()))
	defer func() { _ = srv.Stop(context.Background()) }()

	require.NotEqual(t, takenPort, srv.Port())
	require.Greater(t, srv.Port(), takenPort)
}

func TestStartStop_ServesOverTCP(t *testing.T) {
	root := t.TempDir()
	postsDir := filepath.Join(root, "posts")
	require.NoError(t, os.MkdirAll(postsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "p.html"), []byte("page"), 0o644))

	srv := New(root, 19780, 20)
	require.NoError(t, srv.Start(context.Background()))
	defer func() { _ = srv.Stop(context.Background()) }()

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/posts/p.html", srv.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "page", string(body))
}
