package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	sharedmw "github.com/emiliopalmerini/abadmin/internal/shared/middleware"
	"github.com/emiliopalmerini/abadmin/internal/util"
	"github.com/emiliopalmerini/abadmin/internal/web/templates"
)

// OverrideParam forces a variant on the landing page.
const OverrideParam = "r_v_b_override"

const (
	passwordHint = "Usernames are 5 to 50 characters without @ # % { }. Passwords need at least 8 characters."
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)

	if _, err := s.accounts.EnsureParticipant(ctx, sess.ID); err != nil {
		s.renderError(w, r, err)
		return
	}
	if err := s.accounts.RecordFunnelEvent(ctx, sess.ID, domain.StepLanded); err != nil {
		s.renderError(w, r, err)
		return
	}

	view := templates.LandingView{Page: s.page(r, "Welcome")}

	exp, err := s.experiments.Resolve(ctx, s.cfg.ButtonExperiment)
	switch {
	case errors.Is(err, domain.ErrExperimentNotFound):
		log.Printf("web: landing experiment %q not found, rendering default", s.cfg.ButtonExperiment)
	case err != nil:
		s.renderError(w, r, err)
		return
	default:
		view.ExperimentName = exp.Name
		a, err := s.experiments.Assign(ctx, exp.ID, sess.ID, r.URL.Query().Get(OverrideParam))
		if err != nil && !errors.Is(err, domain.ErrNoVariants) {
			s.renderError(w, r, err)
			return
		}
		view.VariantName = a.VariantName("")
		view.Reason = string(a.Reason)
	}

	view.ButtonColor, view.ButtonText = buttonFor(view.VariantName)
	s.render(w, r, http.StatusOK, templates.Landing(view))
}

// buttonFor derives the call-to-action style from a variant name such as
// "blue_with_text".
func buttonFor(variant string) (color, text string) {
	name := strings.ToLower(variant)
	switch {
	case strings.Contains(name, "red"):
		color = "red"
	case strings.Contains(name, "blue"):
		color = "blue"
	default:
		color = "default"
	}
	text = "Register"
	if strings.Contains(name, "with_text") {
		text = "Start your journey!"
	}
	return color, text
}

func (s *Server) registerView(r *http.Request) templates.AuthFormView {
	return templates.AuthFormView{
		Page:    s.page(r, "Register"),
		Action:  "/register",
		Heading: "Create an account",
		Submit:  "Register",
		Hint:    passwordHint,
	}
}

func (s *Server) loginView(r *http.Request) templates.AuthFormView {
	return templates.AuthFormView{
		Page:    s.page(r, "Log in"),
		Action:  "/login",
		Heading: "Log in",
		Submit:  "Log in",
	}
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.accounts.RecordFunnelEvent(ctx, SessionFrom(ctx).ID, domain.StepSigningUp); err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, templates.AuthForm(s.registerView(r)))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, errBadForm)
		return
	}
	username := r.PostForm.Get("username")

	user, err := s.accounts.Register(ctx, username, r.PostForm.Get("password"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.renderError(w, r, err)
			return
		}
		view := s.registerView(r)
		view.Username = username
		view.Error = registerMessage(err)
		s.render(w, r, status, templates.AuthForm(view))
		return
	}

	sess := SessionFrom(ctx)
	s.linkSession(r, sess.ID, user.ID)
	if err := s.accounts.RecordFunnelEvent(ctx, sess.ID, domain.StepSignedUp); err != nil {
		s.renderError(w, r, err)
		return
	}
	if err := s.signIn(w, r, user); err != nil {
		s.renderError(w, r, err)
		return
	}
	sharedmw.Redirect(w, r, "/personal")
}

func registerMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		return "That username is not allowed."
	case errors.Is(err, domain.ErrWeakPassword):
		return "That password is too weak."
	case errors.Is(err, domain.ErrDuplicateName):
		return "That username is taken."
	default:
		return err.Error()
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, templates.AuthForm(s.loginView(r)))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, errBadForm)
		return
	}
	username := r.PostForm.Get("username")

	user, err := s.accounts.Authenticate(ctx, username, r.PostForm.Get("password"))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		view := s.loginView(r)
		view.Username = username
		view.Error = "Invalid username or password."
		s.render(w, r, http.StatusUnauthorized, templates.AuthForm(view))
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.linkSession(r, SessionFrom(ctx).ID, user.ID)
	if err := s.signIn(w, r, user); err != nil {
		s.renderError(w, r, err)
		return
	}
	sharedmw.Redirect(w, r, "/personal")
}

// linkSession ties the session participant to the user. A participant
// already owned by another account keeps its link.
func (s *Server) linkSession(r *http.Request, sessionID, userID string) {
	err := s.accounts.LinkUser(r.Context(), sessionID, userID)
	if err != nil && !errors.Is(err, domain.ErrAlreadyLinked) {
		log.Printf("web: link session %s to user %s: %v", sessionID, userID, err)
	}
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	sess := SessionFrom(r.Context())
	sess.UserID = user.ID
	sess.Username = user.Username
	return s.sessions.Write(w, r, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePersonal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)
	if !sess.LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	events, err := s.accounts.SessionEvents(ctx, sess.ID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	view := templates.PersonalView{Page: s.page(r, "Your account"), SessionID: sess.ID}
	for _, e := range events {
		view.Events = append(view.Events, templates.FunnelEventRow{
			Step:       string(e.Step),
			OccurredAt: util.FormatDateTime(&e.OccurredAt),
		})
	}
	s.render(w, r, http.StatusOK, templates.Personal(view))
}
