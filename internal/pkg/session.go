package pkg

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "user_session"
	sessionLifetime   = 24 * time.Hour
)

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// SessionID - returns the session id carried by the request cookie, or "" when there is none.
func SessionID(req *http.Request) string {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	if _, err = uuid.Parse(cookie.Value); err != nil {
		return ""
	}

	return cookie.Value
}

// EnsureSession - returns the request's session id, issuing a new cookie on writer when the request has none.
func EnsureSession(writer http.ResponseWriter, req *http.Request) (string, bool) {
	if sessionID := SessionID(req); sessionID != "" {
		return sessionID, false
	}

	sessionID := GenerateNewSessionID()
	http.SetCookie(writer, SessionCookie(sessionID))

	return sessionID, true
}

func SessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(sessionLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
