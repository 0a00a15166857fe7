package http

import (
	"context"
	"net/http"

	"sharkfin/internal/core"
	"sharkfin/internal/log"
)

type budgetsData struct {
	Budgets    []core.Budget
	Categories []core.Category
}

type categoriesData struct {
	Categories []core.Category
}

// handleBudgets renders the budgets page on GET and creates a budget on
// POST.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := sc.backend.ListBudgets(r.Context())
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		categories, err := s.getCategories(r.Context(), sc)
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		s.render(w, r, "budgets.html", budgetsData{Budgets: budgets, Categories: categories})
	case http.MethodPost:
		s.handleBudgetCreate(w, r, sc)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleBudgetCreate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	b, err := parseBudgetForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := sc.backend.CreateBudget(r.Context(), b)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "budget created",
		log.FieldBudgetID, created.ID, log.FieldCategoryID, created.CategoryID)

	NewHTMXResponse().
		TriggerChanged("budgets").
		TriggerFormReset().
		TriggerSuccessNotification("Budget created").
		Write(w)
}

func (s *Server) handleBudgetUpdate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	b, err := parseBudgetForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if b.ID == "" {
		UnprocessableEntityError("budget id is required").Write(w)
		return
	}

	updated, err := sc.backend.UpdateBudget(r.Context(), b)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "budget updated",
		log.FieldBudgetID, updated.ID)

	NewHTMXResponse().
		TriggerChanged("budgets").
		TriggerSuccessNotification("Budget updated").
		Write(w)
}

func (s *Server) handleBudgetDelete(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
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
		UnprocessableEntityError("budget id is required").Write(w)
		return
	}

	if err := sc.backend.DeleteBudget(r.Context(), id); err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.dashCache.Purge()
	log.FromContext(r.Context()).InfoContext(r.Context(), "budget deleted",
		log.FieldBudgetID, id)

	NewHTMXResponse().
		TriggerChanged("budgets").
		TriggerSuccessNotification("Budget deleted").
		Write(w)
}

// handleCategories renders the categories page on GET and creates a
// category on POST.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.getCategories(r.Context(), sc)
		if err != nil {
			s.handleBackendError(w, r, sc, err)
			return
		}
		s.render(w, r, "categories.html", categoriesData{Categories: categories})
	case http.MethodPost:
		s.handleCategoryCreate(w, r, sc)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	cat, err := parseCategoryForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := sc.backend.CreateCategory(r.Context(), cat)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateCategories(sc)
	log.FromContext(r.Context()).InfoContext(r.Context(), "category created",
		log.FieldCategoryID, created.ID)

	NewHTMXResponse().
		TriggerChanged("categories").
		TriggerFormReset().
		TriggerSuccessNotification("Category created").
		Write(w)
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	cat, err := parseCategoryForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if cat.ID == "" {
		UnprocessableEntityError("category id is required").Write(w)
		return
	}

	updated, err := sc.backend.UpdateCategory(r.Context(), cat)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateCategories(sc)
	log.FromContext(r.Context()).InfoContext(r.Context(), "category updated",
		log.FieldCategoryID, updated.ID)

	NewHTMXResponse().
		TriggerChanged("categories").
		TriggerSuccessNotification("Category updated").
		Write(w)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
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
		UnprocessableEntityError("category id is required").Write(w)
		return
	}

	if err := sc.backend.DeleteCategory(r.Context(), id); err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.invalidateCategories(sc)
	log.FromContext(r.Context()).InfoContext(r.Context(), "category deleted",
		log.FieldCategoryID, id)

	NewHTMXResponse().
		TriggerChanged("categories").
		TriggerSuccessNotification("Category deleted").
		Write(w)
}

// getCategories returns the session's category list, cached.
func (s *Server) getCategories(ctx context.Context, sc *sessionContext) ([]core.Category, error) {
	if cats, found := s.catCache.Get(sc.session.ID); found {
		return cats, nil
	}
	cats, err := sc.backend.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.catCache.Set(sc.session.ID, cats)
	return cats, nil
}

// invalidateCategories drops everything a category change can affect:
// the reference list, category names on dashboard cards, list filters.
func (s *Server) invalidateCategories(sc *sessionContext) {
	s.catCache.Delete(sc.session.ID)
	s.dashCache.Purge()
	s.listCache.Purge()
}
