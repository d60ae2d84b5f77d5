package server

import (
	"encoding/json"
	"testing"

	"blogicum/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/api/profiles/me", asUser(userID), s.GetMyProfile)
	app.Put("/api/profiles/me", asUser(userID), s.UpdateMyProfile)
	app.Get("/api/profiles/:username", asUser(userID), s.GetProfile)
	return app
}

func TestGetProfile(t *testing.T) {
	s, db := newTestServer(t)
	createUser(t, db, "alice", false)
	app := newProfileApp(s, 0)

	resp := doRequest(t, app, "GET", "/api/profiles/alice", "")
	require.Equal(t, fiber.StatusOK, resp.status)

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(resp.body), &user))
	assert.Equal(t, "alice", user.Username)

	resp = doRequest(t, app, "GET", "/api/profiles/nobody", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestGetMyProfile(t *testing.T) {
	s, db := newTestServer(t)
	me := createUser(t, db, "alice", false)

	resp := doRequest(t, newProfileApp(s, me.ID), "GET", "/api/profiles/me", "")
	require.Equal(t, fiber.StatusOK, resp.status)

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(resp.body), &user))
	assert.Equal(t, me.ID, user.ID)
}

func TestUpdateMyProfile(t *testing.T) {
	s, db := newTestServer(t)
	me := createUser(t, db, "alice", false)
	app := newProfileApp(s, me.ID)

	t.Run("success", func(t *testing.T) {
		body := `{"username":"alice","email":"alice@example.com","first_name":"Alice","bio":"hello"}`
		resp := doRequest(t, app, "PUT", "/api/profiles/me", body)
		require.Equal(t, fiber.StatusOK, resp.status)

		var got models.User
		require.NoError(t, db.First(&got, me.ID).Error)
		assert.Equal(t, "Alice", got.FirstName)
		assert.Equal(t, "hello", got.Bio)
	})

	t.Run("empty username", func(t *testing.T) {
		resp := doRequest(t, app, "PUT", "/api/profiles/me", `{"username":"","email":"alice@example.com"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.status)
	})

	t.Run("reserved username", func(t *testing.T) {
		resp := doRequest(t, app, "PUT", "/api/profiles/me", `{"username":"me","email":"alice@example.com"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.status)
	})
}
