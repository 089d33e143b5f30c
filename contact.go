package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pratyushrajshrestha/portfolio/internal/contact"
	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
)

// Handle contact form submission with HTMX. Every outcome answers 200 with a
// fragment for #contact-result.
func (s *server) submitContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.contactInvalid(c)
		return
	}
	form = form.Trimmed()
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		s.contactInvalid(c)
		return
	}

	id, err := s.contact.Submit(c.Request.Context(), form, s.admin.hashIP(c.ClientIP()))
	switch {
	case err == nil:
		s.metrics.ContactSubmission("delivered")
	case id != 0:
		// Saved but not forwarded; the owner sees it on the dashboard.
		slog.Warn("Contact message stored without forwarding", logfields.MessageID(id), logfields.Error(err))
		s.metrics.ContactSubmission("stored")
	default:
		slog.Error("Contact message lost", logfields.Error(err))
		s.metrics.ContactSubmission("error")
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

func (s *server) contactInvalid(c *gin.Context) {
	s.metrics.ContactSubmission("invalid")
	c.HTML(http.StatusOK, "contact-error.html", gin.H{
		"error": "Please fill in every field and use a valid email address.",
	})
}
