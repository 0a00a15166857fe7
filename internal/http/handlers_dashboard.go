package http

import (
	"context"
	"net/http"
	"time"

	"sharkfin/internal/daterange"
	"sharkfin/internal/log"
	"sharkfin/internal/views"
)

// dashboardData is what the dashboard templates render.
type dashboardData struct {
	View    views.DashboardView
	Presets []daterange.Preset
}

// handleIndex renders the dashboard page shell; the report cards arrive via
// the /ui/dashboard partial.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	preset, rng, err := parseRangeParams(r.URL.Query(), time.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	view, err := s.getDashboard(r.Context(), sc, preset, rng)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.render(w, r, "index.html", dashboardData{View: view, Presets: daterange.Presets()})
}

// handleDashboardPartial re-renders the report cards for a preset change.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request, sc *sessionContext) {
	preset, rng, err := parseRangeParams(r.URL.Query(), time.Now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	view, err := s.getDashboard(r.Context(), sc, preset, rng)
	if err != nil {
		s.handleBackendError(w, r, sc, err)
		return
	}

	s.render(w, r, "dashboard.html", dashboardData{View: view, Presets: daterange.Presets()})
}

// getDashboard returns the dashboard view for a range, from cache when the
// same session asked recently.
func (s *Server) getDashboard(ctx context.Context, sc *sessionContext, preset daterange.Preset, rng daterange.Range) (views.DashboardView, error) {
	reqLogger := log.FromContext(ctx)
	key := sc.session.ID + "|" + string(preset) + "|" + rng.Start.String() + "|" + rng.End.String()

	if view, found := s.dashCache.Get(key); found {
		reqLogger.DebugContext(ctx, "dashboard cache hit", log.FieldPreset, string(preset))
		return view, nil
	}

	view, err := views.BuildDashboard(ctx, sc.backend, preset, rng)
	if err != nil {
		return views.DashboardView{}, err
	}

	s.dashCache.Set(key, view)
	reqLogger.DebugContext(ctx, "dashboard cached",
		log.FieldPreset, string(preset),
		log.FieldRangeStart, rng.Start.String(),
		log.FieldRangeEnd, rng.End.String())
	return view, nil
}
