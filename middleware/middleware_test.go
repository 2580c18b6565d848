package middleware

import (
	"coursehub/apperror"
	"coursehub/config"
	"coursehub/database"
	"coursehub/models"
	"coursehub/tests"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, handlers ...fiber.Handler) *fiber.App {
	config.AppConfig = config.Defaults()
	app := fiber.New()
	app.Get("/", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestJWTRoundTrip(t *testing.T) {
	app := testApp(t, JWTMiddleware, RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c), "role": Role(c)})
	})
	db := tests.OpenDB(t)
	database.Database = database.DbInstance{Db: db}
	admin := tests.SeedUser(t, db, "ada", models.RoleAdmin)
	learner := tests.SeedUser(t, db, "bo", models.RoleUser)

	token, err := GenerateJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	status, body := call(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, admin.ID, body["id"])
	assert.Equal(t, models.RoleAdmin, body["role"])

	forged, err := GenerateJWT(learner.ID, learner.Name, models.RoleAdmin, learner.Email)
	require.NoError(t, err)
	status, _ = call(t, app, forged)
	assert.Equal(t, fiber.StatusForbidden, status, "the stored role decides, not the claim")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Update("role", models.RoleUser).Error)
	status, _ = call(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, status)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Updates(map[string]interface{}{"role": models.RoleAdmin, "is_deleted": true}).Error)
	status, _ = call(t, app, token)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJWTExpired(t *testing.T) {
	app := testApp(t, JWTMiddleware, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	config.AppConfig.JWTExpiry = -time.Minute

	token, err := GenerateJWT(1, "Ada", "USER", "ada@example.com")
	require.NoError(t, err)
	status, _ := call(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireRoleWithoutToken(t *testing.T) {
	app := testApp(t, RequireRole("ADMIN"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	status, _ := call(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		err    error
		status int
		reason string
	}{
		{apperror.NotFound(apperror.ReasonCourseNotFound, "Course not found!"), fiber.StatusNotFound, apperror.ReasonCourseNotFound},
		{apperror.Conflict(apperror.ReasonAlreadySubmitted, "dup"), fiber.StatusConflict, apperror.ReasonAlreadySubmitted},
		{apperror.Forbidden(apperror.ReasonNotPurchased, "buy"), fiber.StatusForbidden, apperror.ReasonNotPurchased},
		{apperror.Validation(apperror.ReasonAmountMismatch, "amount"), fiber.StatusUnprocessableEntity, apperror.ReasonAmountMismatch},
		{apperror.Transient(errors.New("db down"), "try again"), fiber.StatusServiceUnavailable, apperror.ReasonStorage},
	}
	for _, tc := range cases {
		app := testApp(t, func(c *fiber.Ctx) error { return ErrorResponse(c, tc.err) })
		status, body := call(t, app, "")
		assert.Equal(t, tc.status, status, tc.reason)
		assert.Equal(t, false, body["status"])
		data, _ := body["data"].(map[string]interface{})
		assert.Equal(t, tc.reason, data["reason"])
	}

	app := testApp(t, func(c *fiber.Ctx) error {
		return ErrorResponse(c, apperror.ValidationFields(map[string]string{"name": "required"}))
	})
	status, body := call(t, app, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]interface{}{"name": "required"}, body["data"])

	app = testApp(t, func(c *fiber.Ctx) error { return ErrorResponse(c, errors.New("boom")) })
	status, _ = call(t, app, "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
