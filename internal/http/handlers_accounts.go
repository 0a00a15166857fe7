package http

import (
	"net/http"

	"sharkfin/internal/core"
	"sharkfin/internal/log"
)

type accountsData struct {
	Accounts []core.Account
	Types    []core.AccountType
}

var accountTypes = []core.AccountType{
	core.AccountChecking,
	core.AccountSavings,
	core.AccountCreditCard,
	core.AccountInvestment,
	core.AccountCash,
}

// handleAccounts renders the accounts page on GET and creates an account
// on POST.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	switch r.Method {
	case http.MethodGet:
		includeArchived := r.URL.Query().Get("archived") == "true"
		accounts, err := sc.backend.ListAccounts(r.Context(), includeArchived)
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		s.render(w, r, "accounts.html", accountsData{Accounts: accounts, Types: accountTypes})
	case http.MethodPost:
		s.handleAccountCreate(w, r, sc)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	acc, err := parseAccountForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := sc.backend.CreateAccount(r.Context(), acc)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "account created",
		log.FieldAccountID, created.ID)

	NewHTMXResponse().
		TriggerChanged("accounts").
		TriggerFormReset().
		TriggerSuccessNotification("Account created").
		BodyHTML(`<div class="success">Created account ` + escape(created.Name) + `</div>`).
		Write(w)
}

func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	acc, err := parseAccountForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if acc.ID == "" {
		UnprocessableEntityError("account id is required").Write(w)
		return
	}

	updated, err := sc.backend.UpdateAccount(r.Context(), acc)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "account updated",
		log.FieldAccountID, updated.ID)

	NewHTMXResponse().
		TriggerChanged("accounts").
		TriggerSuccessNotification("Account updated").
		BodyHTML(`<div class="success">Updated account ` + escape(updated.Name) + `</div>`).
		Write(w)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
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
		UnprocessableEntityError("account id is required").Write(w)
		return
	}

	if err := sc.backend.DeleteAccount(r.Context(), id); err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	s.listCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "account deleted",
		log.FieldAccountID, id)

	NewHTMXResponse().
		TriggerChanged("accounts").
		TriggerSuccessNotification("Account deleted").
		Write(w)
}
