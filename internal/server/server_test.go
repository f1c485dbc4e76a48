package server_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bakim-takip-backend/internal/config"
	"bakim-takip-backend/internal/metrics"
	"bakim-takip-backend/internal/server"
	"bakim-takip-backend/internal/testutil"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) do(method, path, token, body string) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, raw
}

func (c client) login(username, password string) string {
	c.t.Helper()
	code, raw := c.do("POST", "/api/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(c.t, fiber.StatusOK, code, string(raw))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(raw, &out))
	return out.Token
}

func newClient(t *testing.T) client {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		CORSOrigins: "http://localhost:5173",
		JWTSecret:   strings.Repeat("s", 32),
		JWTTTL:      time.Hour,
	}
	app := server.New(server.Deps{
		Config:  cfg,
		DB:      testutil.NewDB(t),
		Caps:    workitem.AllCapabilities(),
		Metrics: metrics.New(nil),
		Log:     log,
	})
	return client{t: t, app: app}
}

func TestApprovalFlowEndToEnd(t *testing.T) {
	c := newClient(t)

	code, _ := c.do("POST", "/api/auth/register-admin", "", `{"name":"Yönetici","username":"admin","password":"gizli123"}`)
	require.Equal(t, fiber.StatusCreated, code)
	code, _ = c.do("POST", "/api/auth/register-admin", "", `{"name":"İkinci","username":"admin2","password":"gizli123"}`)
	assert.Equal(t, fiber.StatusForbidden, code)

	adminToken := c.login("admin", "gizli123")

	code, _ = c.do("POST", "/api/admin/users", adminToken, `{"name":"Ali","username":"ali","password":"sifre123"}`)
	require.Equal(t, fiber.StatusCreated, code)
	aliToken := c.login("ali", "sifre123")

	code, _ = c.do("POST", "/api/admin/facilities", aliToken, `{"name":"Merkez"}`)
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = c.do("POST", "/api/admin/facilities", adminToken, `{"name":"Merkez","address":"Ankara"}`)
	require.Equal(t, fiber.StatusCreated, code)

	// operatör kalemi oluşturur ve tamamlar
	code, raw := c.do("POST", "/api/control-items", aliToken,
		`{"title":"A","period":"Günlük","date":"2024-01-01","status":"Beklemede","assignedUser":"ali","facilityId":1}`)
	require.Equal(t, fiber.StatusCreated, code, string(raw))
	var item struct {
		ID             uint   `json:"id"`
		ApprovalStatus string `json:"approvalStatus"`
	}
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, "", item.ApprovalStatus)

	code, raw = c.do("PUT", "/api/control-items/1", aliToken, `{"status":"Tamamlandı"}`)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, "pending", item.ApprovalStatus)

	code, raw = c.do("GET", "/api/control-items/pending-approvals", aliToken, "")
	require.Equal(t, fiber.StatusOK, code)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(raw, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "control_1", pending[0]["id"])

	code, _ = c.do("PUT", "/api/control-items/control_1/approve", aliToken, "")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = c.do("PUT", "/api/control-items/control_1/approve", adminToken, `{"approvedBy":"admin"}`)
	assert.Equal(t, fiber.StatusOK, code)
	code, raw = c.do("PUT", "/api/control-items/1/reject", adminToken, `{"reason":"tekrar"}`)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Contains(t, string(raw), `"error"`)

	code, raw = c.do("GET", "/api/control-items/pending-approvals", adminToken, "")
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(raw, &pending))
	assert.Empty(t, pending)

	code, raw = c.do("GET", "/api/dashboard/summary", adminToken, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), `"pending_total":0`)

	code, raw = c.do("GET", "/api/audit-logs", adminToken, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), `"action":"approve"`)

	// tesise bağlı kalem varken silinemez
	code, _ = c.do("DELETE", "/api/admin/facilities/1", adminToken, "")
	assert.Equal(t, fiber.StatusConflict, code)

	// operatör silemez
	code, _ = c.do("DELETE", "/api/control-items/1", aliToken, "")
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = c.do("DELETE", "/api/control-items/1", adminToken, "")
	assert.Equal(t, fiber.StatusNoContent, code)
	code, _ = c.do("GET", "/api/control-items/1", adminToken, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestMoveAndUndo(t *testing.T) {
	c := newClient(t)
	code, _ := c.do("POST", "/api/auth/register-admin", "", `{"name":"Yönetici","username":"admin","password":"gizli123"}`)
	require.Equal(t, fiber.StatusCreated, code)
	token := c.login("admin", "gizli123")

	for _, d := range []string{"2024-01-01", "2024-01-08", "2024-01-15"} {
		code, raw := c.do("POST", "/api/control-items", token, `{"title":"Haftalık kontrol","period":"Haftalık","date":"`+d+`"}`)
		require.Equal(t, fiber.StatusCreated, code, string(raw))
	}

	code, raw := c.do("POST", "/api/control-items/move", token,
		`{"sourcePeriod":"Haftalık","targetPeriod":"Aylık","startDate":"2024-01-01","endDate":"2024-01-31"}`)
	require.Equal(t, fiber.StatusOK, code, string(raw))
	assert.Contains(t, string(raw), `"movedCount":3`)

	code, raw = c.do("GET", "/api/control-items?period="+url.QueryEscape("Aylık"), token, "")
	require.Equal(t, fiber.StatusOK, code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, 3)

	code, _ = c.do("GET", "/api/control-items?period=Monthly", token, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	// son create kaydını geri al
	code, raw = c.do("GET", "/api/audit-logs?action=create", token, "")
	require.Equal(t, fiber.StatusOK, code)
	var logs []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &logs))
	require.Len(t, logs, 3)

	code, raw = c.do("POST", "/api/audit-logs/"+jsonNumber(logs[0].ID)+"/undo", token, "")
	require.Equal(t, fiber.StatusOK, code, string(raw))
	code, _ = c.do("POST", "/api/audit-logs/"+jsonNumber(logs[0].ID)+"/undo", token, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, raw = c.do("GET", "/api/control-items", token, "")
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, 2)
}

func TestAuthAndHealth(t *testing.T) {
	c := newClient(t)

	code, _ := c.do("GET", "/api/control-items", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	code, _ = c.do("GET", "/api/control-items", "bozuk", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = c.do("POST", "/api/auth/login", "", `{"username":"yok","password":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, raw := c.do("GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "ok")

	code, raw = c.do("GET", "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "bakim_http_request_duration_seconds")
}

func jsonNumber(n uint) string {
	b, _ := json.Marshal(n)
	return string(b)
}
