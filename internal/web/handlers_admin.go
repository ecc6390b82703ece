package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/experiments"
	sharedmw "github.com/emiliopalmerini/abadmin/internal/shared/middleware"
	"github.com/emiliopalmerini/abadmin/internal/util"
	"github.com/emiliopalmerini/abadmin/internal/web/templates"
)

// Form fields posted by the experiment panel.
const (
	fieldStatusAdvance     = "status-adv"
	fieldUpdateAllocations = "update-allocations"
	fieldVariantID         = "variant-id[]"
	fieldAllocationValue   = "allocation-value[]"
	fieldVariantDesc       = "variant-description[]"
)

func (s *Server) handleExperiments(w http.ResponseWriter, r *http.Request) {
	s.renderExperimentList(w, r, http.StatusOK, templates.ExperimentListView{Page: s.page(r, "Experiments")})
}

func (s *Server) renderExperimentList(w http.ResponseWriter, r *http.Request, status int, view templates.ExperimentListView) {
	exps, err := s.experiments.List(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	for _, e := range exps {
		view.Experiments = append(view.Experiments, templates.ExperimentRow{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Status:      e.Status.String(),
			Variants:    len(e.VariantIDs),
			StartDate:   util.FormatDateTime(e.StartDate),
			EndDate:     util.FormatDateTime(e.EndDate),
		})
	}
	s.render(w, r, status, templates.ExperimentList(view))
}

func (s *Server) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, errBadForm)
		return
	}
	name := r.PostForm.Get("name")
	description := r.PostForm.Get("description")

	exp, err := s.experiments.CreateExperiment(r.Context(), name, description)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.renderError(w, r, err)
			return
		}
		view := templates.ExperimentListView{
			Page:            s.page(r, "Experiments"),
			FormName:        name,
			FormDescription: description,
		}
		view.Error = err.Error()
		s.renderExperimentList(w, r, status, view)
		return
	}
	sharedmw.Redirect(w, r, "/admin/experiments/"+exp.ID)
}

func (s *Server) handleExperimentDetail(w http.ResponseWriter, r *http.Request) {
	view, err := s.experimentView(r, chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, templates.Experiment(view))
}

// handleExperimentUpdate applies the allocation form, then the status action.
// htmx requests get the refreshed panel back; plain form posts are redirected
// to the detail page.
func (s *Server) handleExperimentUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, errBadForm)
		return
	}
	form := r.PostForm
	_, hasAllocations := form[fieldUpdateAllocations]
	action := form.Get(fieldStatusAdvance)
	if !hasAllocations && action == "" {
		s.renderError(w, r, fmt.Errorf("%w: nothing to update", errBadForm))
		return
	}

	var notice []string
	if hasAllocations {
		updates, err := parseAllocationForm(form[fieldVariantID], form[fieldAllocationValue], form[fieldVariantDesc])
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		if err := s.experiments.UpdateAllocations(ctx, id, updates); err != nil {
			s.renderError(w, r, err)
			return
		}
		notice = append(notice, "Allocations saved.")
	}

	if action != "" {
		a, err := domain.ParseAction(action)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		exp, err := s.experiments.Transition(ctx, id, a)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		notice = append(notice, "Experiment is "+exp.Status.String()+".")
	}

	if !sharedmw.IsHTMX(r) {
		http.Redirect(w, r, "/admin/experiments/"+id, http.StatusSeeOther)
		return
	}
	view, err := s.experimentView(r, id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	view.Notice = strings.Join(notice, " ")
	s.render(w, r, http.StatusOK, templates.ExperimentPanel(view))
}

// parseAllocationForm zips the parallel variant-id, allocation-value and
// variant-description lists. Descriptions are only applied when one is
// posted per variant.
func parseAllocationForm(ids, values, descriptions []string) ([]experiments.AllocationUpdate, error) {
	if len(ids) != len(values) {
		return nil, fmt.Errorf("%w: %d variant ids for %d allocations", errBadForm, len(ids), len(values))
	}
	withDesc := len(descriptions) == len(ids)

	updates := make([]experiments.AllocationUpdate, len(ids))
	for i, id := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(values[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: allocation %q is not a whole number", errBadForm, values[i])
		}
		updates[i] = experiments.AllocationUpdate{VariantID: id, Allocation: n}
		if withDesc {
			desc := descriptions[i]
			updates[i].Description = &desc
		}
	}
	return updates, nil
}

func (s *Server) handleAddVariant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, errBadForm)
		return
	}

	allocation := 1
	if v := strings.TrimSpace(r.PostForm.Get("allocation")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.renderError(w, r, fmt.Errorf("%w: allocation %q is not a whole number", errBadForm, v))
			return
		}
		allocation = n
	}

	_, err := s.experiments.AddVariant(r.Context(), id, r.PostForm.Get("name"), r.PostForm.Get("description"), allocation)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	sharedmw.Redirect(w, r, "/admin/experiments/"+id)
}

func (s *Server) experimentView(r *http.Request, id string) (templates.ExperimentView, error) {
	summary, err := s.experiments.Summary(r.Context(), id)
	if err != nil {
		return templates.ExperimentView{}, err
	}
	exp := summary.Experiment

	view := templates.ExperimentView{
		Page:              s.page(r, exp.Name),
		ID:                exp.ID,
		Name:              exp.Name,
		Description:       exp.Description,
		Status:            exp.Status.String(),
		StartDate:         util.FormatDateTime(exp.StartDate),
		EndDate:           util.FormatDateTime(exp.EndDate),
		Actions:           availableActions(exp.Status),
		TotalAllocation:   summary.TotalAllocation,
		TotalParticipants: summary.TotalParticipants,
	}
	for _, share := range summary.Variants {
		view.Variants = append(view.Variants, templates.VariantRow{
			ID:             share.Variant.ID,
			Name:           share.Variant.Name,
			Description:    share.Variant.Description,
			Allocation:     share.Variant.Allocation,
			AllocationPct:  util.FormatPercent(share.AllocationPct),
			Participants:   share.ParticipantCount,
			ParticipantPct: util.FormatPercent(share.ParticipantPct),
		})
	}
	return view, nil
}

// availableActions lists the actions that would move an experiment out of status.
func availableActions(status domain.ExperimentStatus) []string {
	var out []string
	for _, a := range domain.Actions {
		if _, changed, err := domain.NextStatus(status, a); err == nil && changed {
			out = append(out, string(a))
		}
	}
	return out
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	counts, err := s.accounts.FunnelCounts(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var landed int64
	for _, c := range counts {
		if c.Step == domain.StepLanded {
			landed = c.Count
		}
	}

	view := templates.FunnelView{Page: s.page(r, "Funnel")}
	for _, c := range counts {
		var pct float64
		if landed > 0 {
			pct = float64(c.Count) * 100 / float64(landed)
		}
		view.Steps = append(view.Steps, templates.FunnelRow{
			Step:    string(c.Step),
			Count:   c.Count,
			Percent: util.FormatPercent(pct),
		})
	}
	s.render(w, r, http.StatusOK, templates.Funnel(view))
}
