package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeInto(t, w, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "jane@example.com", created.User.Email)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "Jane", "jane@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Impostor",
		"email":    "jane@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "Jane", "jane@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	r := setupServer(t)
	token := registerUser(t, r, "Jane", "jane@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		User struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeInto(t, w, &body)
	assert.Equal(t, "Jane", body.User.Name)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvalidToken(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/projects", "not-a-real-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
