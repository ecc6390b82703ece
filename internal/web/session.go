package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the browser-session cookie holding the signed session token.
const SessionCookieName = "abadmin_session"

// Session identifies one browser session. ID doubles as the participant ID.
type Session struct {
	ID       string
	UserID   string
	Username string
}

func (s Session) LoggedIn() bool {
	return s.UserID != ""
}

type sessionClaims struct {
	UserID   string `json:"uid,omitempty"`
	Username string `json:"usr,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager signs sessions into HS256 tokens carried by a cookie without
// Expires or Max-Age, so the browser drops it when it closes.
type SessionManager struct {
	key    []byte
	secure bool
	now    func() time.Time
}

func NewSessionManager(secretKey string, secure bool) *SessionManager {
	return &SessionManager{key: []byte(secretKey), secure: secure, now: time.Now}
}

// Read returns the session from a valid cookie.
func (m *SessionManager) Read(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return Session{}, err
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(strings.TrimSpace(cookie.Value), &claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("invalid session token: %w", err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return Session{}, errors.New("invalid session token: subject is not a uuid")
	}
	return Session{ID: claims.Subject, UserID: claims.UserID, Username: claims.Username}, nil
}

// Write signs s and sets the session cookie.
func (m *SessionManager) Write(w http.ResponseWriter, r *http.Request, s Session) error {
	claims := sessionClaims{
		UserID:   s.UserID,
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  s.ID,
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (m *SessionManager) isSecure(r *http.Request) bool {
	return m.secure || r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Middleware attaches the session to the request context, issuing a new
// session when the cookie is missing or invalid.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Read(r)
		if err != nil {
			s = Session{ID: uuid.NewString()}
			if err := m.Write(w, r, s); err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	})
}

type sessionKey struct{}

func withSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached by SessionManager.Middleware.
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
