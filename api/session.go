package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/store"
)

// SessionCookie is the name of the browser session cookie
const SessionCookie = "dispatch_session"

// Sessions is the process-wide registry of live browser sessions. It
// starts empty on every boot. Tokens are opaque uuids mapping to the
// authenticated identity; entries evict after the configured TTL.
type Sessions struct {
	cache  store.Cache
	secure bool
}

// NewSessions creates a session registry with the given ttl. secure
// controls the cookie's Secure attribute.
func NewSessions(ttl time.Duration, secure bool) *Sessions {
	return &Sessions{
		cache:  store.NewFIFO(context.Background(), ttl),
		secure: secure,
	}
}

// Issue creates a session for the given user and sets the session
// cookie on the response
func (s *Sessions) Issue(w http.ResponseWriter, r *http.Request, username, userID string) (string, error) {
	token := uuid.New().String()
	info := auth.NewDefaultUser(username, userID, nil, nil)
	if err := s.cache.Store(token, info, r); err != nil {
		return "", err
	}
	http.SetCookie(w, s.cookie(token, 0))
	return token, nil
}

// Resolve returns the identity bound to the request's session cookie
func (s *Sessions) Resolve(r *http.Request) (auth.Info, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	v, ok, err := s.cache.Load(c.Value, r)
	if err != nil || !ok {
		return nil, false
	}
	info, ok := v.(auth.Info)
	return info, ok
}

// Revoke drops the request's session, if any, and expires the cookie.
// Revoking without a live session is a no-op, not an error.
func (s *Sessions) Revoke(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		_ = s.cache.Delete(c.Value, r)
	}
	http.SetCookie(w, s.cookie("", -1))
}

func (s *Sessions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
