package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/auth"
	"github.com/taskhub-dev/taskhub/internal/handlers"
	"github.com/taskhub-dev/taskhub/internal/router"
	"gorm.io/gorm"
)

const testPassword = "secret-password"

// setupServer wires the real router against a fresh in-memory database.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerUser signs a user up and returns their bearer token.
func registerUser(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	decodeInto(t, w, &body)
	require.NotEmpty(t, body.Token)

	return body.Token
}

func createProject(t *testing.T, r *gin.Engine, token, title string) handlers.ProjectResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"title":       title,
		"description": "about " + title,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project handlers.ProjectResponse
	decodeInto(t, w, &project)

	return project
}

func createTask(t *testing.T, r *gin.Engine, token string, projectID uint, title string) handlers.TaskResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{
		"title":   title,
		"project": projectID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task handlers.TaskResponse
	decodeInto(t, w, &task)

	return task
}

func grantAccess(t *testing.T, r *gin.Engine, token string, projectID uint, email string, level int) handlers.AccessResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/access", token, gin.H{
		"project":          projectID,
		"user":             email,
		"membership_level": level,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var access handlers.AccessResponse
	decodeInto(t, w, &access)

	return access
}
