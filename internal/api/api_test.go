package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/notify"
	"maintenance-tracker/internal/repository"
	"maintenance-tracker/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, repository.Seed(context.Background(), db, hash))

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completedRepo := repository.NewCompletedTaskRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	guard := auth.NewGuard(userRepo, auth.DefaultRolePermissions())
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, notify.NopSender{})
	archiveSvc := service.NewArchiveService(db, taskRepo, completedRepo)
	taskSvc := service.NewTaskService(taskRepo, lookupRepo, archiveSvc, notificationSvc)
	amendmentSvc := service.NewAmendmentService(db, taskRepo, userRepo, notificationSvc, 1, 1)
	userSvc := service.NewUserService(userRepo, guard, tokens)
	lookupSvc := service.NewLookupService(lookupRepo, guard)
	performanceSvc := service.NewPerformanceService(taskRepo, completedRepo, userRepo, guard)
	sweepSvc := service.NewSweepService(taskRepo, notificationSvc)

	server := NewServer(tokens, guard, userSvc, taskSvc, archiveSvc, amendmentSvc,
		lookupSvc, notificationSvc, performanceSvc, sweepSvc)
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func loginDirector(t *testing.T, router *gin.Engine) string {
	t.Helper()
	res := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "director",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestLoginAndMe(t *testing.T) {
	router := setupRouter(t)
	token := loginDirector(t, router)

	res := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Username    string   `json:"username"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "director", body.Username)
	assert.Equal(t, "director", body.Role)
	assert.Contains(t, body.Permissions, "system_settings")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := setupRouter(t)

	res := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "director",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	router := setupRouter(t)

	res := doJSON(t, router, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	router := setupRouter(t)
	token := loginDirector(t, router)

	create := doJSON(t, router, http.MethodPost, "/api/tasks", token, gin.H{
		"description":               "Inspect landing gear actuator",
		"category_id":               1,
		"priority_id":               1,
		"estimated_completion_date": "2025-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

	var created struct {
		ID     uint   `json:"ID"`
		Status string `json:"Status"`
	}
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "pending", created.Status)

	get := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, get.Code)

	update := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), token, gin.H{
		"description":               "Inspect landing gear actuator",
		"category_id":               1,
		"priority_id":               1,
		"status":                    "completed",
		"estimated_completion_date": "2025-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	var outcome struct {
		MovedToArchive bool `json:"moved_to_archive"`
	}
	require.NoError(t, json.Unmarshal(update.Body.Bytes(), &outcome))
	assert.True(t, outcome.MovedToArchive)

	// The task is gone from the active store and present in the archive.
	gone := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)

	archive := doJSON(t, router, http.MethodGet, "/api/completed-tasks", token, nil)
	require.Equal(t, http.StatusOK, archive.Code)

	var archived struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(archive.Body.Bytes(), &archived))
	assert.Equal(t, 1, archived.Total)
}

func TestValidationErrorsMapToBadRequest(t *testing.T) {
	router := setupRouter(t)
	token := loginDirector(t, router)

	res := doJSON(t, router, http.MethodPost, "/api/tasks", token, gin.H{
		"description": "Missing references",
		"category_id": 9999,
		"priority_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Code)
}
