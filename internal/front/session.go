package front

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const sessionName = "minishop_session"

const (
	keyToken = "token"
	keyRole  = "role"
	keyCSRF  = "csrf"
)

// Flash levels, matching the alert styles the templates render.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

type Flash struct {
	Level string
	Text  string
}

// Sessions wraps the cookie store. The session holds only the bearer token,
// the role it was issued for, and a CSRF token; it dies with the browser
// session or an explicit logout.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(key string) *Sessions {
	s := sessions.NewCookieStore([]byte(key))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: s}
}

func (m *Sessions) get(r *http.Request) *sessions.Session {
	// Ignore decode errors: a tampered cookie simply yields a fresh session.
	s, _ := m.store.Get(r, sessionName)
	return s
}

func (m *Sessions) Token(r *http.Request) (string, bool) {
	t, ok := m.get(r).Values[keyToken].(string)
	return t, ok && t != ""
}

func (m *Sessions) Role(r *http.Request) string {
	role, _ := m.get(r).Values[keyRole].(string)
	return role
}

func (m *Sessions) SetAuth(w http.ResponseWriter, r *http.Request, token, role string) error {
	s := m.get(r)
	s.Values[keyToken] = token
	s.Values[keyRole] = role
	if _, ok := s.Values[keyCSRF].(string); !ok {
		s.Values[keyCSRF] = uuid.NewString()
	}
	return s.Save(r, w)
}

// Clear drops every session value unconditionally. The cookie itself stays
// alive so a flash message set right after survives the logout redirect.
func (m *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	s := m.get(r)
	for k := range s.Values {
		delete(s.Values, k)
	}
	_ = s.Save(r, w)
}

// CSRF returns the session's CSRF token, minting one on first use.
func (m *Sessions) CSRF(w http.ResponseWriter, r *http.Request) string {
	s := m.get(r)
	if t, ok := s.Values[keyCSRF].(string); ok && t != "" {
		return t
	}
	t := uuid.NewString()
	s.Values[keyCSRF] = t
	_ = s.Save(r, w)
	return t
}

// CheckCSRF verifies the posted form token against the session.
func (m *Sessions) CheckCSRF(r *http.Request) bool {
	want, ok := m.get(r).Values[keyCSRF].(string)
	return ok && want != "" && r.PostFormValue("csrf_token") == want
}

func (m *Sessions) Flash(w http.ResponseWriter, r *http.Request, level, text string) {
	s := m.get(r)
	s.AddFlash(text, level)
	_ = s.Save(r, w)
}

// Flashes drains all pending flash messages.
func (m *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.get(r)

	var out []Flash
	for _, level := range []string{FlashSuccess, FlashDanger, FlashInfo} {
		for _, v := range s.Flashes(level) {
			if text, ok := v.(string); ok {
				out = append(out, Flash{Level: level, Text: text})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save(r, w)
	}
	return out
}
