package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripPrefixForwardsPathAndQuery(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(r.URL.RequestURI()))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/tour/*", StripPrefix("/api/v1/tour", upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tour/houses/walnut/tour?color=white", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/houses/walnut/tour?color=white", string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestStripPrefixForwardsBody(t *testing.T) {
	var got string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got = string(data)
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/tour/*", StripPrefix("/api/v1/tour", upstream.URL))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tour/sessions",
		strings.NewReader(`{"house_id":"walnut"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"house_id":"walnut"}`, got)
}

func TestStripPrefixUnreachableUpstream(t *testing.T) {
	app := fiber.New()
	app.All("/api/v1/cache/*", StripPrefix("/api/v1/cache", "http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
