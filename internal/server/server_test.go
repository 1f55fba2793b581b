package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "taskmanager/docs"
	"taskmanager/internal/config"
	"taskmanager/internal/middleware"
	"taskmanager/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *server.Server {
	t.Helper()
	s, err := server.Init(&config.Config{
		ServerPort:      "0",
		GinMode:         "test",
		Location:        time.UTC,
		ShutdownTimeout: time.Second,
	})
	require.NoError(t, err)
	return s
}

func TestInit_Root(t *testing.T) {
	s := setupServer(t)

	req, _ := http.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message": "Task Manager API is up"}`, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
}

func TestInit_TaskLifecycle(t *testing.T) {
	s := setupServer(t)

	// Создаём задачу
	req, _ := http.NewRequest("POST", "/tasks/", bytes.NewBufferString(`{"title": "Buy milk"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	// Задача попала в хранилище сервера
	assert.Len(t, s.Tasks.All(req.Context()), 1)

	// Меняем статус и удаляем
	req, _ = http.NewRequest("PUT", "/tasks/"+created.ID, bytes.NewBufferString(`{"status": "completed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	req, _ = http.NewRequest("DELETE", "/tasks/"+created.ID, nil)
	resp = httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, s.Tasks.All(req.Context()))
}

func TestInit_SwaggerDoc(t *testing.T) {
	s := setupServer(t)

	// gin-swagger сверяет путь по RequestURI, его выставляет только httptest.NewRequest
	req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Task Manager API")
	assert.Contains(t, resp.Body.String(), "/tasks/{id}")
}
