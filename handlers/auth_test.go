package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/microlearn-api/models"
)

func TestRegisterSetsSessionAndHidesPassword(t *testing.T) {
	server, db := newTestServer(t, &scriptedGenerator{})
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "PasswordHash")
	assert.NotContains(t, user, "passwordHash")

	// Registering logs the user in
	me := getJSON(t, client, server.URL+"/api/auth/me", nil)
	drain(me)
	assert.Equal(t, http.StatusOK, me.StatusCode)

	var sessions int64
	db.Model(&models.Session{}).Count(&sessions)
	assert.Equal(t, int64(1), sessions)
}

func TestRegisterDuplicate(t *testing.T) {
	server, db := newTestServer(t, &scriptedGenerator{})
	client := newClient(t)

	registerUser(t, client, server.URL, "alice", "alice@example.com")

	resp := postJSON(t, newClient(t), server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "hunter22",
	})
	drain(resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(1), users)
}

func TestLoginWrongPassword(t *testing.T) {
	server, db := newTestServer(t, &scriptedGenerator{})
	registerUser(t, newClient(t), server.URL, "alice", "alice@example.com")

	// A fresh client so the register cookie does not leak in
	client := newClient(t)
	db.Where("1 = 1").Delete(&models.Session{})

	resp := postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	drain(resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var sessions int64
	db.Model(&models.Session{}).Count(&sessions)
	assert.Zero(t, sessions, "failed login creates no session")
}

func TestLoginLogoutCycle(t *testing.T) {
	server, _ := newTestServer(t, &scriptedGenerator{})
	registerUser(t, newClient(t), server.URL, "alice", "alice@example.com")

	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := getJSON(t, client, server.URL+"/api/auth/me", nil)
	drain(me)
	require.Equal(t, http.StatusOK, me.StatusCode)

	logout := postJSON(t, client, server.URL+"/api/auth/logout", nil)
	drain(logout)
	require.Equal(t, http.StatusOK, logout.StatusCode)

	meAfter := getJSON(t, client, server.URL+"/api/auth/me", nil)
	drain(meAfter)
	assert.Equal(t, http.StatusUnauthorized, meAfter.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	server, _ := newTestServer(t, &scriptedGenerator{})
	client := &http.Client{}

	for _, url := range []string{
		server.URL + "/api/auth/me",
		server.URL + "/api/notes",
		server.URL + "/api/progress",
	} {
		resp, err := client.Get(url)
		require.NoError(t, err)
		drain(resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, url)
	}
}
