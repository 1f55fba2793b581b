package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskmanager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())

	// Обработчик возвращает ID запроса из контекста
	r.GET("/resource", func(c *gin.Context) {
		requestID, exists := c.Get(middleware.RequestIDKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Request ID not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"request_id": requestID})
	})

	return r
}

func TestRequestID_Generated(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	requestID := resp.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
	assert.Contains(t, resp.Body.String(), requestID)
}

func TestRequestID_Propagated(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/resource", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "abc-123", resp.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, resp.Body.String(), "abc-123")
}

func TestRequestID_TooLongIsReplaced(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest("GET", "/resource", nil)
	req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 500))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	requestID := resp.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}
