package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemInfoResponse describes the running frontend
type SystemInfoResponse struct {
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	BackendURL  string `json:"backend_url"`
	SessionMode string `json:"session_mode"`
	Uptime      string `json:"uptime"`
}

// getSystemInfo is limited to signed-in users since it exposes the backend address
func (s *Server) getSystemInfo(c *gin.Context) {
	if _, ok := GetSessionData(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, SystemInfoResponse{
		Version:     s.version,
		GoVersion:   runtime.Version(),
		BackendURL:  s.config.Backend.BaseURL,
		SessionMode: s.config.Session.Mode,
		Uptime:      time.Since(s.startedAt).Round(time.Second).String(),
	})
}
