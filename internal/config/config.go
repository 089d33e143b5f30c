// Package config holds the server settings. Every field is a kong flag with
// an environment fallback, so a .env file loaded by godotenv works as well
// as command line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DevAdminPassword is accepted only in debug mode.
const DevAdminPassword = "admin123"

type Config struct {
	Addr        string `help:"Interface to listen on." env:"ADDR" default:""`
	Port        string `short:"p" help:"Port to listen on." env:"PORT" default:"8080"`
	ContentPath string `name:"content" help:"Content YAML file; empty serves the embedded copy." env:"CONTENT_PATH" type:"path"`
	DBPath      string `name:"db" help:"SQLite database path." env:"DB_PATH" default:"portfolio.db" type:"path"`
	ResumePath  string `name:"resume" help:"Resume PDF served at /resume when the content has no resume link." env:"RESUME_PATH" default:"resume.pdf" type:"path"`
	Debug       bool   `help:"Run gin in debug mode." env:"DEBUG"`

	SMTPHost string `name:"smtp-host" env:"SMTP_HOST" default:"smtp.gmail.com" help:"SMTP relay host."`
	SMTPPort string `name:"smtp-port" env:"SMTP_PORT" default:"587" help:"SMTP relay port."`
	SMTPUser string `name:"smtp-user" env:"SMTP_USER" help:"SMTP username (sender address)."`
	SMTPPass string `name:"smtp-pass" env:"SMTP_PASS" help:"SMTP password."`
	ToEmail  string `name:"to-email" env:"TO_EMAIL" help:"Where contact messages are sent."`

	FormEndpoint string `name:"form-endpoint" env:"FORM_ENDPOINT" help:"Hosted form endpoint used when SMTP is not configured."`

	AdminUsername     string `name:"admin-username" env:"ADMIN_USERNAME" default:"admin" help:"Admin login name."`
	AdminPassword     string `name:"admin-password" env:"ADMIN_PASSWORD" help:"Admin password (hashed at startup)."`
	AdminPasswordHash string `name:"admin-password-hash" env:"ADMIN_PASSWORD_HASH" help:"Admin password as a bcrypt hash."`

	CountupDuration  time.Duration `name:"countup-duration" env:"COUNTUP_DURATION" default:"1200ms" help:"Duration of the hero count-up."`
	FrameRate        int           `name:"frame-rate" env:"FRAME_RATE" default:"60" help:"Frames per second of streamed count-ups."`
	NavIdle          time.Duration `name:"nav-idle" env:"NAV_IDLE" default:"30m" help:"Idle time after which a nav session is dropped."`
	VisitorRetention time.Duration `name:"visitor-retention" env:"VISITOR_RETENTION" default:"8760h" help:"How long visitor records are kept."`
}

// ListenAddr joins Addr and Port.
func (c *Config) ListenAddr() string { return net.JoinHostPort(c.Addr, c.Port) }

// Validate is called by kong after parsing.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must be set"))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame rate must be positive, got %d", c.FrameRate))
	}
	if c.CountupDuration <= 0 {
		errs = append(errs, fmt.Errorf("count-up duration must be positive, got %s", c.CountupDuration))
	}
	if c.NavIdle <= 0 {
		errs = append(errs, fmt.Errorf("nav idle must be positive, got %s", c.NavIdle))
	}
	if c.VisitorRetention <= 0 {
		errs = append(errs, fmt.Errorf("visitor retention must be positive, got %s", c.VisitorRetention))
	}
	if !c.Debug && c.AdminPasswordHash == "" && (c.AdminPassword == "" || c.AdminPassword == DevAdminPassword) {
		errs = append(errs, errors.New("set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH outside debug mode"))
	}
	return errors.Join(errs...)
}

// AdminHash returns the bcrypt hash to check logins against. In debug mode
// an unset password falls back to DevAdminPassword.
func (c *Config) AdminHash() ([]byte, error) {
	if c.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(c.AdminPasswordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return []byte(c.AdminPasswordHash), nil
	}
	pw := c.AdminPassword
	if pw == "" {
		pw = DevAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return hash, nil
}

// UsingDevPassword reports whether logins fall back to DevAdminPassword.
func (c *Config) UsingDevPassword() bool {
	return c.AdminPasswordHash == "" && (c.AdminPassword == "" || c.AdminPassword == DevAdminPassword)
}
