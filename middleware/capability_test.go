package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipedesk/config"
	"pipedesk/utils"
)

func newGatedApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"

	app := fiber.New()
	app.Get("/view", Protected(), RequireView(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/view-only", RequireView(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/manage", Protected(), RequireManage(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateToken("op-1", role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestProtected_RejectsMissingToken(t *testing.T) {
	app := newGatedApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/view", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_AcceptsAnyRoleForViewing(t *testing.T) {
	app := newGatedApp(t)

	for _, role := range []string{RoleViewer, RoleManager, RoleAdmin} {
		req := httptest.NewRequest(fiber.MethodGet, "/view", nil)
		req.Header.Set("Authorization", bearer(t, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "role %s should view", role)
	}
}

func TestRequireView_RejectsMissingClaims(t *testing.T) {
	app := newGatedApp(t)

	// reaches RequireView without Protected having stored claims
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/view-only", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireManage_BlocksViewers(t *testing.T) {
	app := newGatedApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/manage", nil)
	req.Header.Set("Authorization", bearer(t, RoleViewer))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireManage_AllowsManagers(t *testing.T) {
	app := newGatedApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/manage", nil)
	req.Header.Set("Authorization", bearer(t, RoleManager))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
