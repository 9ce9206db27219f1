package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/chat"
)

const (
	chatCookie = "chat_session"
	// chatWaitTimeout bounds a long-poll so proxies don't cut it first.
	chatWaitTimeout = 25 * time.Second
)

type chatRequest struct {
	Text string `json:"text" form:"text" binding:"max=2000"`
}

type chatResponse struct {
	Messages  []chat.Message `json:"messages"`
	Composing bool           `json:"composing"`
	LastID    int            `json:"last_id"`
	Accepted  *bool          `json:"accepted,omitempty"`
	HTML      string         `json:"html,omitempty"`
}

func (s *Server) sessionFrom(c *gin.Context) (*chat.Engine, bool) {
	id, err := c.Cookie(chatCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(id)
}

func (s *Server) session(c *gin.Context) *chat.Engine {
	prev, _ := c.Cookie(chatCookie)
	id, e := s.sessions.GetOrCreate(prev)
	if id != prev {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(chatCookie, id, int(s.cfg.ChatSessionTTL.Seconds()), "/", "", s.cfg.Release(), true)
	}
	return e
}

// transcript is the conversation a client sees: the session's when it has
// one, otherwise the greeting alone.
func transcript(e *chat.Engine) ([]chat.Message, bool) {
	if e == nil {
		return []chat.Message{{ID: 1, Text: chat.Greeting, Sender: chat.Bot, Timestamp: time.Now()}}, false
	}
	return e.Transcript(), e.Composing()
}

func (s *Server) chatState(c *gin.Context, e *chat.Engine) (chatResponse, error) {
	var resp chatResponse
	resp.Messages, resp.Composing = transcript(e)
	if n := len(resp.Messages); n > 0 {
		resp.LastID = resp.Messages[n-1].ID
	}
	if c.Query("format") == "html" {
		var buf bytes.Buffer
		err := s.templates.ExecuteTemplate(&buf, "chat-messages.html", page{
			Chat:      resp.Messages,
			Composing: resp.Composing,
		})
		if err != nil {
			return resp, err
		}
		resp.HTML = buf.String()
	}
	return resp, nil
}

// writeChat renders the state of e; a nil e is a visitor without a session.
func (s *Server) writeChat(c *gin.Context, status int, e *chat.Engine, accepted *bool) {
	resp, err := s.chatState(c, e)
	if err != nil {
		s.logger.Error("render chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chat"})
		return
	}
	resp.Accepted = accepted
	c.JSON(status, resp)
}

// handleChatState returns the visitor's conversation. It never starts a
// session or sets a cookie; only POST /chat does.
func (s *Server) handleChatState(c *gin.Context) {
	e, _ := s.sessionFrom(c)
	s.writeChat(c, http.StatusOK, e, nil)
}

// handleChatSubmit answers 202 when the message starts a reply and 200 with
// accepted=false when it was ignored (blank, or a reply is still pending).
func (s *Server) handleChatSubmit(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})
		return
	}

	e := s.session(c)
	accepted := e.Submit(req.Text)
	status := http.StatusOK
	if accepted {
		status = http.StatusAccepted
		s.metrics.ChatSubmissions.WithLabelValues("accepted").Inc()
	} else {
		s.metrics.ChatSubmissions.WithLabelValues("ignored").Inc()
	}
	s.writeChat(c, status, e, &accepted)
}

// handleChatWait blocks until the transcript grows past ?after=N, the
// session closes or the wait times out, then returns the current state.
// Without a session nothing can change, so only the greeting is ever new.
func (s *Server) handleChatWait(c *gin.Context) {
	after, err := strconv.Atoi(c.DefaultQuery("after", "0"))
	if err != nil || after < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "after must be a non-negative integer"})
		return
	}

	e, ok := s.sessionFrom(c)
	timeout := time.NewTimer(chatWaitTimeout)
	defer timeout.Stop()
	if !ok {
		if after < 1 {
			s.writeChat(c, http.StatusOK, nil, nil)
			return
		}
		select {
		case <-timeout.C:
			s.writeChat(c, http.StatusOK, nil, nil)
		case <-c.Request.Context().Done():
		}
		return
	}
	for {
		changed := e.Changed()
		if len(e.Since(after)) > 0 || e.Closed() {
			break
		}
		select {
		case <-changed:
			continue
		case <-timeout.C:
		case <-c.Request.Context().Done():
			return
		}
		break
	}
	s.writeChat(c, http.StatusOK, e, nil)
}
