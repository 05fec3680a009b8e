package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doRequest(r *Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func okHandler(body string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestExactRouteMatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", okHandler("list"))

	rec := doRequest(r, http.MethodGet, "/api/v1/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", okHandler("list"))

	rec := doRequest(r, http.MethodDelete, "/api/v1/runs")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNotFound(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs", okHandler("list"))

	rec := doRequest(r, http.MethodGet, "/api/v1/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWildcardMatchesOneSegment(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs/*", okHandler("run"))

	rec := doRequest(r, http.MethodGet, "/api/v1/runs/abc-123")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run", rec.Body.String())
}

func TestLongestWildcardWins(t *testing.T) {
	r := New()
	r.GET("/api/v1/runs/*", okHandler("run"))
	r.GET("/api/v1/runs/*/logs", okHandler("logs"))

	rec := doRequest(r, http.MethodGet, "/api/v1/runs/abc-123/logs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logs", rec.Body.String())
}

func TestTrailingWildcardSwallowsRemainder(t *testing.T) {
	r := New()
	r.GET("/swagger/*", okHandler("swagger"))

	rec := doRequest(r, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/swagger/doc/nested/file.json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/runs/abc", "/api/v1/runs/*", true},
		{"/api/v1/runs/abc/logs", "/api/v1/runs/*/logs", true},
		{"/api/v1/runs/abc/errors", "/api/v1/runs/*/logs", false},
		{"/api/v1/runs", "/api/v1/runs/*", true},
		{"/swagger/a/b/c", "/swagger/*", true},
		{"/other/abc", "/api/v1/runs/*", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern),
			"path=%s pattern=%s", tt.path, tt.pattern)
	}
}
