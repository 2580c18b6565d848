package shared

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required"`
	Percent int      `json:"percent" validate:"min=1,max=100"`
	Options []string `json:"options" validate:"min=2,dive,required"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(&sample{Name: "x", Percent: 5, Options: []string{"a", "b"}}))

	errs := Struct(&sample{Percent: 101, Options: []string{"a", ""}})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "percent")
	assert.Contains(t, errs, "options[1]")
}

func TestBodyAndParamID(t *testing.T) {
	app := fiber.New()
	app.Post("/things/:id", ParamID("id", "Thing"), Body[sample]("req"), func(c *fiber.Ctx) error {
		req := c.Locals("req").(*sample)
		return c.SendString(req.Name + ":" + c.Params("id"))
	})

	tests := []struct {
		path, body string
		status     int
	}{
		{"/things/7", `{"name":"ok","percent":10,"options":["a","b"]}`, fiber.StatusOK},
		{"/things/abc", `{}`, fiber.StatusBadRequest},
		{"/things/0", `{}`, fiber.StatusBadRequest},
		{"/things/7", `{"name":""}`, fiber.StatusUnprocessableEntity},
		{"/things/7", `not json`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path+" "+tt.body)
		if tt.status == fiber.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, "ok:7", string(body))
		}
	}
}
