package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// sessionKeyAuthenticated is the server-side session flag. The client
// only ever holds the signed session ID cookie.
const sessionKeyAuthenticated = "authenticated"

// Gate verifies the single shared admin credential and tracks the
// per-session authenticated flag.
type Gate struct {
	adminUsername string
	passwordHash  []byte
	logger        *slog.Logger
}

// NewGate builds a Gate from the configured admin username and bcrypt
// password hash. The plaintext password is never held.
func NewGate(adminUsername, passwordHash string, logger *slog.Logger) *Gate {
	return &Gate{
		adminUsername: adminUsername,
		passwordHash:  []byte(passwordHash),
		logger:        logger,
	}
}

// VerifyCredentials returns true only when both the username and the
// password match. bcrypt comparison is constant-time; the username
// check uses a constant-time compare as well so neither half leaks.
// Callers get a single yes/no, never which part failed.
func (g *Gate) VerifyCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.adminUsername)) == 1
	passOK := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil

	return userOK && passOK
}

// StartSession marks the current session as authenticated.
func (g *Gate) StartSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set(sessionKeyAuthenticated, true)
	return session.Save()
}

// EndSession clears the authenticated flag and expires the session.
func (g *Gate) EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionKeyAuthenticated)
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	return session.Save()
}

// IsAuthenticated reports whether the current session carries the flag.
func (g *Gate) IsAuthenticated(c *gin.Context) bool {
	session := sessions.Default(c)
	authed, ok := session.Get(sessionKeyAuthenticated).(bool)
	return ok && authed
}

// RequireSession gates protected routes: anonymous requests are sent
// to the login page and the handler chain is aborted before any
// mutation runs.
func (g *Gate) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.IsAuthenticated(c) {
			g.logger.Debug("Unauthenticated request redirected to login",
				slog.String("path", c.Request.URL.Path),
			)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}
