package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"automarket-backend/utils"
)

const (
	sessionName        = "automarket_session"
	sessionKeyLoggedIn = "admin_logged_in"
	sessionKeyUsername = "admin_username"
	contextKeySession  = "admin_session"
)

// AdminSession is the decoded per-client session state. Handlers read it
// from the gin context instead of touching the cookie store directly, so
// gated operations can be exercised in tests without a real session layer.
type AdminSession struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

var store = newCookieStore()

func newCookieStore() *sessions.CookieStore {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "automarket-dev-secret-change-me"
	}
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// LoadSession decodes the session cookie into an AdminSession and stashes it
// in the request context. Runs on every route, gated or not.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := store.Get(c.Request, sessionName)
		admin := AdminSession{}
		if loggedIn, ok := sess.Values[sessionKeyLoggedIn].(bool); ok && loggedIn {
			admin.LoggedIn = true
			if username, ok := sess.Values[sessionKeyUsername].(string); ok {
				admin.Username = username
			}
		}
		c.Set(contextKeySession, admin)
		c.Next()
	}
}

// CurrentSession returns the session decoded by LoadSession, or an
// anonymous session if the middleware did not run.
func CurrentSession(c *gin.Context) AdminSession {
	if v, ok := c.Get(contextKeySession); ok {
		if sess, ok := v.(AdminSession); ok {
			return sess
		}
	}
	return AdminSession{}
}

// SignIn marks the caller's session as authenticated.
func SignIn(c *gin.Context, username string) error {
	sess, _ := store.Get(c.Request, sessionName)
	sess.Values[sessionKeyLoggedIn] = true
	sess.Values[sessionKeyUsername] = username
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return err
	}
	c.Set(contextKeySession, AdminSession{LoggedIn: true, Username: username})
	return nil
}

// SignOut clears the caller's session.
func SignOut(c *gin.Context) error {
	sess, _ := store.Get(c.Request, sessionName)
	delete(sess.Values, sessionKeyLoggedIn)
	delete(sess.Values, sessionKeyUsername)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return err
	}
	c.Set(contextKeySession, AdminSession{})
	return nil
}

// AdminRequired refuses unauthenticated callers before the handler runs, so
// no persistence or filesystem side effect can happen on a gated route.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).LoggedIn {
			utils.JSONError(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}
