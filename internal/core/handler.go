package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListTools serves the tool descriptors as a plain JSON array
func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, s.listResult().Tools)
}
