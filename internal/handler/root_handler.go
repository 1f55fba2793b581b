package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root godoc
// @Summary      Liveness check
// @Tags         System
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Task Manager API is up"})
}

// Health godoc
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
