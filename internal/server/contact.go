package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/mail"
	"github.com/Zachkp/portfolio/internal/store"
)

type contactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Subject string `form:"subject" binding:"max=200"`
	Message string `form:"message" binding:"required,max=5000"`
}

// handleContact stores the submission and forwards it by mail. A missing
// mail setup is not an error for the visitor; the message is kept either way.
func (s *Server) handleContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.metrics.ContactMessages.WithLabelValues("invalid").Inc()
		c.HTML(http.StatusUnprocessableEntity, "contact-error.html", gin.H{
			"error": "Please provide your name, a valid email address and a message.",
		})
		return
	}

	msg, err := s.store.SaveContact(c.Request.Context(), store.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Subject: strings.TrimSpace(form.Subject),
		Message: strings.TrimSpace(form.Message),
	})
	if err != nil {
		s.logger.Error("save contact message", zap.Error(err))
		s.metrics.ContactMessages.WithLabelValues("error").Inc()
		c.HTML(http.StatusInternalServerError, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again.",
		})
		return
	}

	switch err := s.notifier.Notify(msg); {
	case errors.Is(err, mail.ErrNotConfigured):
		s.logger.Info("contact message stored without mail", zap.Int64("id", msg.ID))
	case err != nil:
		s.logger.Warn("contact mail failed", zap.Int64("id", msg.ID), zap.Error(err))
	default:
		s.logger.Info("contact message sent", zap.Int64("id", msg.ID))
	}
	s.metrics.ContactMessages.WithLabelValues("stored").Inc()

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you " + msg.Name + "! Your message has been sent successfully.",
	})
}
