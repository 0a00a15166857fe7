package http

import (
	"context"
	"net/http"

	"sharkfin/internal/api"
	"sharkfin/internal/core"
	"sharkfin/internal/log"
)

const (
	previewLimit    = 20
	suggestionLimit = 8
)

type rulesData struct {
	Rules      []core.Rule
	Categories []core.Category
}

type rulePreviewData struct {
	Preview api.RulePreview
}

type payeesData struct {
	Payees []core.Payee
}

type suggestionsData struct {
	Query       string
	Suggestions []core.PayeeSuggestion
}

// handleRules renders the rules page on GET and creates a rule on POST.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	switch r.Method {
	case http.MethodGet:
		rules, err := sc.backend.ListRules(r.Context())
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		categories, err := s.getCategories(r.Context(), sc)
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		s.render(w, r, "rules.html", rulesData{Rules: rules, Categories: categories})
	case http.MethodPost:
		s.handleRuleCreate(w, r, sc)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleRuleCreate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rule, err := parseRuleForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := sc.backend.CreateRule(r.Context(), rule)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "rule created",
		log.FieldRuleID, created.ID)

	NewHTMXResponse().
		TriggerChanged("rules").
		TriggerFormReset().
		TriggerSuccessNotification("Rule created").
		Write(w)
}

func (s *Server) handleRuleUpdate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rule, err := parseRuleForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if rule.ID == "" {
		UnprocessableEntityError("rule id is required").Write(w)
		return
	}

	updated, err := sc.backend.UpdateRule(r.Context(), rule)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "rule updated",
		log.FieldRuleID, updated.ID)

	NewHTMXResponse().
		TriggerChanged("rules").
		TriggerSuccessNotification("Rule updated").
		Write(w)
}

func (s *Server) handleRuleDelete(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequireMethod(r, http.MethodPost, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := formValue(r.Form, "id")
	if id == "" {
		UnprocessableEntityError("rule id is required").Write(w)
		return
	}

	if err := sc.backend.DeleteRule(r.Context(), id); err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "rule deleted",
		log.FieldRuleID, id)

	NewHTMXResponse().
		TriggerChanged("rules").
		TriggerSuccessNotification("Rule deleted").
		Write(w)
}

// handleRulePreview renders the backend's dry-run of a rule form against
// existing transactions. Nothing is persisted.
func (s *Server) handleRulePreview(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rule, err := parseRuleForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	preview, err := sc.backend.PreviewRule(r.Context(), rule, previewLimit)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "rule previewed",
		log.FieldOperation, log.OpPreview, log.FieldTotal, preview.Total)
	s.render(w, r, "rule_preview.html", rulePreviewData{Preview: preview})
}

// handlePayees renders the payees page.
func (s *Server) handlePayees(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	payees, err := s.getPayees(r.Context(), sc)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}
	s.render(w, r, "payees.html", payeesData{Payees: payees})
}

// handlePayeeSuggestions renders the typeahead list for a query prefix.
// Short queries return an empty fragment rather than hammering the backend.
func (s *Server) handlePayeeSuggestions(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	q := sanitizeInput(r.URL.Query().Get("q"))
	if len(q) < 2 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}

	suggestions, err := sc.backend.SuggestPayees(r.Context(), q, suggestionLimit)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "payees suggested",
		log.FieldOperation, log.OpSuggest, log.FieldTotal, len(suggestions))
	s.render(w, r, "payee_suggestions.html", suggestionsData{Query: q, Suggestions: suggestions})
}

// getPayees returns the session's payee list, cached.
func (s *Server) getPayees(ctx context.Context, sc *sessionContext) ([]core.Payee, error) {
	if payees, found := s.payeeCache.Get(sc.session.ID); found {
		return payees, nil
	}
	payees, err := sc.backend.ListPayees(ctx)
	if err != nil {
		return nil, err
	}
	s.payeeCache.Set(sc.session.ID, payees)
	return payees, nil
}
