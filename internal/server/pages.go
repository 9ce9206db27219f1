package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/theme"
)

// page is the data every page template renders from.
type page struct {
	Content    *content.Content
	Theme      string
	Dark       bool
	Chat       []chat.Message
	Composing  bool
	ChatLastID int
}

func paletteFrom(c *gin.Context) theme.Palette {
	v, err := c.Cookie(theme.CookieName)
	if err != nil {
		return theme.Default
	}
	return theme.Parse(v)
}

func (s *Server) pageData(c *gin.Context) page {
	p := paletteFrom(c)
	data := page{
		Content: s.content.Get(),
		Theme:   p.String(),
		Dark:    p.IsDark(),
	}

	// Page views don't create sessions; a new visitor sees the greeting alone.
	e, _ := s.sessionFrom(c)
	data.Chat, data.Composing = transcript(e)
	if n := len(data.Chat); n > 0 {
		data.ChatLastID = data.Chat[n-1].ID
	}
	return data
}

func (s *Server) handleHome(c *gin.Context) {
	s.metrics.PageViews.WithLabelValues("home").Inc()
	c.HTML(http.StatusOK, "index.html", s.pageData(c))
}

func (s *Server) handleSection(c *gin.Context) {
	name := c.Param("name")
	if !content.HasSection(name) {
		c.String(http.StatusNotFound, "unknown section")
		return
	}
	s.metrics.PageViews.WithLabelValues(name).Inc()
	c.HTML(http.StatusOK, "section-"+name+".html", s.pageData(c))
}

// handleTheme flips the palette cookie. Script callers get 204, forms are
// sent back where they came from.
func (s *Server) handleTheme(c *gin.Context) {
	next := paletteFrom(c).Toggle()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(theme.CookieName, next.String(), 365*24*3600, "/", "", s.cfg.Release(), false)

	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		c.Header("X-Theme", next.String())
		c.Status(http.StatusNoContent)
		return
	}
	back := c.GetHeader("Referer")
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (s *Server) handlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title": "Privacy Policy",
		"theme": paletteFrom(c).String(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chat_sessions": s.sessions.Len()})
}
