// admin.go - privacy-conscious visitor tracking and the admin pages
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratyushrajshrestha/portfolio/internal/config"
	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process secrets: the cookie token handed out on
// login and the salt used to hash visitor IPs.
type adminAuth struct {
	username string
	hash     []byte
	token    string
	salt     string
}

func newAdminAuth(cfg *config.Config) (*adminAuth, error) {
	hash, err := cfg.AdminHash()
	if err != nil {
		return nil, err
	}
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}

	slog.Info("Admin access available at /admin/login")
	if cfg.UsingDevPassword() {
		slog.Warn("Using the default admin password. Set ADMIN_PASSWORD before deploying.")
	}
	slog.Info("Privacy: visitor tracking enabled with hashed IP addresses")
	return &adminAuth{username: cfg.AdminUsername, hash: hash, token: token, salt: salt}, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashIP is consistent per IP for the life of the process.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) checkLogin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// untrackedPrefixes are never recorded as visits.
var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin", "/favicon", "/privacy",
	"/nav/", "/stats/", "/metrics",
}

// visitorTracking records page views with a hashed IP in the background.
// Requests with "DNT: 1" are not recorded.
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if hasAnyPrefix(path, untrackedPrefixes) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		s.metrics.PageView(path)
		v := store.Visitor{
			HashedIP:  s.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		go s.recordVisit(v)
		c.Next()
	}
}

func (s *server) recordVisit(v store.Visitor) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.db.RecordVisit(ctx, v); err != nil {
		slog.Warn("Error recording visitor", logfields.Visitor(v.HashedIP), logfields.Error(err))
	}
}

func (s *server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		visitor := logfields.Visitor(s.admin.hashIP(c.ClientIP()))
		if !s.admin.checkLogin(c.PostForm("username"), c.PostForm("password")) {
			slog.Warn("Failed admin login attempt", visitor)
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
			return
		}
		// 24 hours
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", false, true)
		slog.Info("Admin login successful", visitor)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		slog.Info("Admin logout", logfields.Visitor(s.admin.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context(), s.now())
		if err != nil {
			s.adminError(c, "Failed to load statistics", err)
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":       stats,
			"navSessions": s.nav.Len(),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/messages", func(c *gin.Context) {
		messages, err := s.db.Messages(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, "Failed to load messages", err)
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": messages})
	})

	adminGroup.DELETE("/messages/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}
		err = s.db.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		case err != nil:
			slog.Error("Error deleting message", logfields.MessageID(id), logfields.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		slog.Info("Message deleted by admin", logfields.MessageID(id))
		c.Status(http.StatusOK)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.db.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, "Failed to load visitors", err)
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	// Applies the retention policy now instead of waiting for the daily job.
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		n, err := s.db.CleanupVisitors(c.Request.Context(), s.now().Add(-s.cfg.VisitorRetention))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.metrics.VisitorsPurged(n)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		slog.Info("Admin stats exported", logfields.Visitor(s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *server) adminError(c *gin.Context, msg string, err error) {
	slog.Error(msg, logfields.Path(c.Request.URL.Path), logfields.Error(err))
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": msg})
}
