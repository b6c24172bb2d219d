package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"MorningRadar/internal/board"
)

type dashboardData struct {
	Report     *board.Report
	RefreshSec int
}

func (s *Server) dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", dashboardData{
		Report:     s.board.Latest(),
		RefreshSec: s.refreshSec,
	})
}

func (s *Server) score(c *gin.Context) {
	r := s.board.Latest()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no report yet"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) refresh(c *gin.Context) {
	r := s.board.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, r)
}

func (s *Server) healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if r := s.board.Latest(); r != nil {
		body["last_refresh"] = r.GeneratedAt
		body["coverage"] = r.Score.Coverage()
	}
	c.JSON(http.StatusOK, body)
}

var funcs = template.FuncMap{
	"signed": func(v float64) string { return fmt.Sprintf("%+.2f", v) },
	"fixed":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"clock":  func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	"percent": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v*100)
	},
}
