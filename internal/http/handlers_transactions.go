package http

import (
	"net/http"

	"sharkfin/internal/log"
	"sharkfin/internal/views"
)

// handleTransactions renders the transactions page on GET and creates a
// transaction on POST. The table body itself arrives via the window partial.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	switch r.Method {
	case http.MethodGet:
		s.handleTransactionsPage(w, r, sc)
	case http.MethodPost:
		s.handleTransactionCreate(w, r, sc)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	view, err := views.BuildTransactions(r.Context(), sc.backend, filter)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.render(w, r, "transactions.html", view)
}

// handleTransactionWindow renders the virtual-list slice for one scroll
// position. State is cached per session and filter so consecutive scroll
// requests reuse the loaded prefix.
func (s *Server) handleTransactionWindow(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	scrollTop, viewportHeight := parseWindowParams(r.URL.Query())

	key := sc.session.ID + "|" + filterKey(filter)
	list, found := s.listCache.Get(key)
	if !found {
		list = views.NewTransactionList(s.windowCfg, filter, s.pageSize)
		s.listCache.Set(key, list)
	}

	window, err := list.Window(r.Context(), sc.backend, scrollTop, viewportHeight)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "window rendered",
		"first", window.First, "last", window.Last, log.FieldTotal, window.Total)
	s.render(w, r, "transaction_window.html", window)
}

func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, err := parseTransactionForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := sc.backend.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateTransactions()
	log.FromContext(r.Context()).InfoContext(r.Context(), "transaction created",
		log.FieldTransactionID, created.ID, log.FieldAccountID, created.AccountID)

	NewHTMXResponse().
		TriggerChanged("transactions").
		TriggerFormReset().
		TriggerSuccessNotification("Transaction saved").
		BodyHTML(`<div class="success">Saved: ` + escape(created.Description) + `</div>`).
		Write(w)
}

func (s *Server) handleTransactionUpdate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, err := parseTransactionForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if tx.ID == "" {
		UnprocessableEntityError("transaction id is required").Write(w)
		return
	}

	updated, err := sc.backend.UpdateTransaction(r.Context(), tx)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateTransactions()
	log.FromContext(r.Context()).InfoContext(r.Context(), "transaction updated",
		log.FieldTransactionID, updated.ID)

	NewHTMXResponse().
		TriggerChanged("transactions").
		TriggerSuccessNotification("Transaction updated").
		BodyHTML(`<div class="success">Updated: ` + escape(updated.Description) + `</div>`).
		Write(w)
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
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
		UnprocessableEntityError("transaction id is required").Write(w)
		return
	}

	if err := sc.backend.DeleteTransaction(r.Context(), id); err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateTransactions()
	log.FromContext(r.Context()).InfoContext(r.Context(), "transaction deleted",
		log.FieldTransactionID, id)

	NewHTMXResponse().
		TriggerChanged("transactions").
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}

// invalidateTransactions drops every cache a transaction mutation can
// affect: the window lists and the dashboard aggregates.
func (s *Server) invalidateTransactions() {
	s.listCache.Purge()
	s.dashCache.Purge()
}
