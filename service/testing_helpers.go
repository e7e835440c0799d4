package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/middleware"
)

const (
	testSessionCookie = "zenbild_token"
	testGoodToken     = "good-token"
	testSessionValue  = "signed-jwt"
)

// setupTestBackend starts a fake auth + project API
func setupTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	authed := func(r *http.Request) bool {
		cookie, err := r.Cookie(testSessionCookie)
		return err == nil && cookie.Value == testSessionValue
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/magic/request", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("POST /auth/magic/consume", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != testGoodToken {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid or expired token"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: testSessionCookie, Value: testSessionValue, Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "p1", "name": "Casa Verde"}})
	})
	mux.HandleFunc("GET /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "project not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       "p1",
			"name":     "Casa Verde",
			"kpis":     []map[string]any{{"label": "Progresso", "value": 42}},
			"timeline": []map[string]any{{"date": "2024-03-01", "text": "Fundação concluída"}},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setupTestService creates a service talking to a fake backend
func setupTestService(t *testing.T) *Service {
	t.Helper()

	backendServer := setupTestBackend(t)

	config := &Config{
		Environment: "test",
		Port:        "3000",
		BaseURL:     "http://localhost:3000",
	}
	config.Backend.BaseURL = backendServer.URL
	config.Session.CookieName = testSessionCookie
	config.Session.PublicPaths = middleware.DefaultPublicPaths

	return New(config)
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	e := echo.New()
	// Disable Echo's default error handler for cleaner test output
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// Just set status code, don't write response
		if he, ok := err.(*echo.HTTPError); ok {
			c.Response().WriteHeader(he.Code)
		} else {
			c.Response().WriteHeader(500)
		}
	}

	svc := setupTestService(t)
	svc.RegisterRoutes(e)

	return e, svc
}

// withSession adds the session cookie to a request (simulates a logged-in browser)
func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: testSessionValue})
	return req
}
