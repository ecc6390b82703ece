package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager("key", false)
	want := Session{ID: uuid.NewString(), UserID: "user-1", Username: "alice1"}

	rec := httptest.NewRecorder()
	if err := m.Write(rec, httptest.NewRequest(http.MethodGet, "/", nil), want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	got, err := m.Read(req)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Errorf("Read = %+v, want %+v", got, want)
	}
}

func TestSessionManager_RejectsForeignKey(t *testing.T) {
	rec := httptest.NewRecorder()
	err := NewSessionManager("one", false).Write(rec, httptest.NewRequest(http.MethodGet, "/", nil), Session{ID: uuid.NewString()})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	if _, err := NewSessionManager("two", false).Read(req); err == nil {
		t.Error("expected error for token signed with another key")
	}
}

func TestSessionManager_RejectsNonUUIDSubject(t *testing.T) {
	m := NewSessionManager("key", false)
	rec := httptest.NewRecorder()
	if err := m.Write(rec, httptest.NewRequest(http.MethodGet, "/", nil), Session{ID: "not-a-uuid"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	if _, err := m.Read(req); err == nil {
		t.Error("expected error for non-uuid subject")
	}
}

func TestSessionManager_CookieAttributes(t *testing.T) {
	tests := []struct {
		name       string
		secure     bool
		forwarded  string
		wantSecure bool
	}{
		{"plain http", false, "", false},
		{"configured secure", true, "", true},
		{"behind tls proxy", false, "https", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSessionManager("key", tt.secure)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			if err := m.Write(rec, req, Session{ID: uuid.NewString()}); err != nil {
				t.Fatalf("Write: %v", err)
			}

			c := sessionCookie(t, rec)
			if c.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", c.Secure, tt.wantSecure)
			}
			if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
				t.Errorf("cookie = %+v", c)
			}
			if c.MaxAge != 0 || !c.Expires.IsZero() {
				t.Errorf("cookie should end with the browser session, got MaxAge=%d Expires=%v", c.MaxAge, c.Expires)
			}
		})
	}
}

func TestSessionManager_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSessionManager("key", false).Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if c := sessionCookie(t, rec); c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", c.MaxAge)
	}
}

func TestSessionMiddleware(t *testing.T) {
	m := NewSessionManager("key", false)
	var seen Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen.ID); err != nil {
		t.Fatalf("new session id %q is not a uuid", seen.ID)
	}
	first := seen

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, rec))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen.ID != first.ID {
		t.Errorf("session id changed from %s to %s", first.ID, seen.ID)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("valid session should not be reissued")
	}
}
