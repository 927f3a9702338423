package anchor

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"anchor-sync/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	cfg := &config.Config{Password: "root-pass"}
	svc := NewAnchorService(NewAnchorRepository(newTestDB(t)), cfg)

	app := fiber.New()
	NewAnchorApi(NewAnchorController(svc), cfg, svc).Setup(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, key, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAnchorApi_RequiresKey(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "GET", "/api/anchors/list", "", "")
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Equal(t, "invalid_api_key", body["error"])

	status, _ = do(t, app, "GET", "/api/anchors/list", "wrong", "")
	require.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAnchorApi_AdminCRUD(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, "POST", "/api/anchors", "root-pass",
		`{"anchor_id":"A1","anchor_name":"alice","anchor_cookie":"sid=1","password":"alice-pass"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = do(t, app, "POST", "/api/anchors", "root-pass", `{"anchor_id":"A1","anchor_name":"dup"}`)
	require.Equal(t, fiber.StatusConflict, status)

	status, body := do(t, app, "GET", "/api/anchors/list", "root-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["anchors"], 1)

	status, _ = do(t, app, "PUT", "/api/anchors/A1", "root-pass", `{"status":"disabled"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, "GET", "/api/anchors/stats", "root-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	require.EqualValues(t, 1, body["disabled"])

	status, _ = do(t, app, "DELETE", "/api/anchors/A1", "root-pass", "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, "GET", "/api/anchors/A1", "root-pass", "")
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestAnchorApi_AnchorPasswordIsScoped(t *testing.T) {
	app := newTestApp(t)

	for _, b := range []string{
		`{"anchor_id":"A1","anchor_name":"alice","anchor_cookie":"sid=1","password":"alice-pass"}`,
		`{"anchor_id":"B1","anchor_name":"bob","password":"bob-pass"}`,
	} {
		status, _ := do(t, app, "POST", "/api/anchors", "root-pass", b)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, body := do(t, app, "GET", "/api/anchors/list", "alice-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	anchors := body["anchors"].([]any)
	require.Len(t, anchors, 1)
	first := anchors[0].(map[string]any)
	require.Equal(t, "A1", first["anchor_id"])
	require.NotContains(t, first, "anchor_cookie")

	status, _ = do(t, app, "GET", "/api/anchors/B1", "alice-pass", "")
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, "DELETE", "/api/anchors/B1", "alice-pass", "")
	require.Equal(t, fiber.StatusForbidden, status)
}

func TestAnchorApi_NamesAndFullMode(t *testing.T) {
	app := newTestApp(t)

	for _, b := range []string{
		`{"anchor_id":"B1","anchor_name":"bob","anchor_cookie":"sid=2","password":"bob-pass"}`,
		`{"anchor_id":"A1","anchor_name":"alice","anchor_cookie":"sid=1","password":"alice-pass"}`,
	} {
		status, _ := do(t, app, "POST", "/api/anchors", "root-pass", b)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, body := do(t, app, "GET", "/api/anchors", "root-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, []any{"alice", "bob"}, body["anchorNames"])

	status, body = do(t, app, "GET", "/api/anchors?mode=full", "root-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	anchors := body["anchors"].([]any)
	require.Len(t, anchors, 2)
	first := anchors[0].(map[string]any)
	require.Equal(t, "A1", first["anchor_id"])
	require.Equal(t, "active", first["status"])
	require.NotContains(t, first, "anchor_cookie")
	require.NotContains(t, first, "password")

	// anchors only see themselves
	status, body = do(t, app, "GET", "/api/anchors", "bob-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, []any{"bob"}, body["anchorNames"])

	status, body = do(t, app, "GET", "/api/anchors?mode=full", "bob-pass", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["anchors"], 1)
}
