package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/web/templates"
)

var (
	errBadForm      = errors.New("bad form")
	errPageNotFound = fmt.Errorf("page %w", domain.ErrNotFound)
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrExperimentNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadForm),
		errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrVariantNotFound),
		errors.Is(err, domain.ErrNegativeAllocation),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrNoVariants),
		errors.Is(err, domain.ErrInvalidFunnelStep),
		errors.Is(err, domain.ErrEmptyParticipantID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyLinked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes an error page. Server errors are logged and their
// details kept from the client.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("web: %s %s: %v", r.Method, r.URL.Path, err)
		msg = "Something went wrong. Please try again."
	}

	view := templates.ErrorView{
		Page:       s.page(r, http.StatusText(status)),
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    msg,
	}
	s.render(w, r, status, templates.Error(view))
}
