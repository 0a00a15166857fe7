package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"sharkfin/internal/api"
	"sharkfin/internal/backend"
	"sharkfin/internal/cache"
	"sharkfin/internal/core"
	"sharkfin/internal/listwindow"
	"sharkfin/internal/log"
	"sharkfin/internal/middleware/ratelimit"
	"sharkfin/internal/middleware/security"
	"sharkfin/internal/middleware/trace"
	"sharkfin/internal/session"
	"sharkfin/internal/views"
	appweb "sharkfin/web"
)

const sessionCookie = "sharkfin_session"

// Options configures a Server.
type Options struct {
	Addr      string
	Connector backend.Connector
	Sessions  *session.Store
	Logger    *log.Logger

	SessionTTL time.Duration

	CacheTTL     time.Duration
	CacheSize    int
	RefCacheTTL  time.Duration
	RefCacheSize int

	PageSize     int
	WindowConfig listwindow.Config

	// TrustedProxies lists CIDRs whose X-Forwarded-For is honored, on top
	// of the loopback and private ranges trusted by default.
	TrustedProxies []string
}

// Server renders pages and partials over the backend API. Read results are
// cached per session; mutations purge the affected caches.
type Server struct {
	http.Server

	logger    *log.Logger
	templates *template.Template
	connector backend.Connector
	sessions  *session.Store

	// dashCache keys on session+range, listCache on session+filter, the
	// reference caches on session alone.
	dashCache  *cache.LRUCache[views.DashboardView]
	listCache  *cache.LRUCache[*views.TransactionList]
	catCache   *cache.LRUCache[[]core.Category]
	payeeCache *cache.LRUCache[[]core.Payee]
	cacheMgr   *cache.Manager

	limiter    *ratelimit.Limiter
	mutLimiter *ratelimit.Limiter
	ipResolver *security.ClientIPResolver
	tracer     *trace.Middleware

	sessionTTL time.Duration
	pageSize   int
	windowCfg  listwindow.Config

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and caches, returning a
// ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 2 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.RefCacheTTL <= 0 {
		opts.RefCacheTTL = 5 * time.Minute
	}
	if opts.RefCacheSize <= 0 {
		opts.RefCacheSize = 50
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.WindowConfig.BaseRowHeight <= 0 {
		opts.WindowConfig = listwindow.DefaultConfig()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	mux := http.NewServeMux()
	s := &Server{
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		connector: opts.Connector,
		sessions:  opts.Sessions,

		dashCache:  cache.NewLRUCache[views.DashboardView](opts.CacheSize, opts.CacheTTL),
		listCache:  cache.NewLRUCache[*views.TransactionList](opts.CacheSize, opts.CacheTTL),
		catCache:   cache.NewLRUCache[[]core.Category](opts.RefCacheSize, opts.RefCacheTTL),
		payeeCache: cache.NewLRUCache[[]core.Payee](opts.RefCacheSize, opts.RefCacheTTL),
		cacheMgr:   cache.NewManager(),

		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		mutLimiter: ratelimit.NewLimiter(ratelimit.Config{
			Requests:        60,
			Window:          time.Minute,
			CleanupInterval: 5 * time.Minute,
		}),
		ipResolver: security.NewClientIPResolver(),

		sessionTTL: opts.SessionTTL,
		pageSize:   opts.PageSize,
		windowCfg:  opts.WindowConfig,
	}

	for _, cidr := range opts.TrustedProxies {
		if err := s.ipResolver.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("skipping invalid trusted proxy", "cidr", cidr, "error", err)
		}
	}

	s.cacheMgr.Register(s.dashCache)
	s.cacheMgr.Register(s.listCache)
	s.cacheMgr.Register(s.catCache)
	s.cacheMgr.Register(s.payeeCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(views.FuncMap()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssets(3600)(static))
	} else {
		s.logger.Warn("failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	limited := s.limiter.Middleware(s.ipResolver.ClientIP)
	mux.Handle("/login", limited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("/logout", s.handleLogout)

	// Reads pass the limiter untouched; only writes count against it.
	protected := func(h sessionHandler) http.HandlerFunc {
		return s.limitWrites(s.withSession(h))
	}

	mux.HandleFunc("/", protected(s.handleIndex))
	mux.HandleFunc("/accounts", protected(s.handleAccounts))
	mux.HandleFunc("/accounts/update", protected(s.handleAccountUpdate))
	mux.HandleFunc("/accounts/delete", protected(s.handleAccountDelete))
	mux.HandleFunc("/transactions", protected(s.handleTransactions))
	mux.HandleFunc("/transactions/update", protected(s.handleTransactionUpdate))
	mux.HandleFunc("/transactions/delete", protected(s.handleTransactionDelete))
	mux.HandleFunc("/categories", protected(s.handleCategories))
	mux.HandleFunc("/categories/update", protected(s.handleCategoryUpdate))
	mux.HandleFunc("/categories/delete", protected(s.handleCategoryDelete))
	mux.HandleFunc("/budgets", protected(s.handleBudgets))
	mux.HandleFunc("/budgets/update", protected(s.handleBudgetUpdate))
	mux.HandleFunc("/budgets/delete", protected(s.handleBudgetDelete))
	mux.HandleFunc("/payees", protected(s.handlePayees))
	mux.HandleFunc("/rules", protected(s.handleRules))
	mux.HandleFunc("/rules/update", protected(s.handleRuleUpdate))
	mux.HandleFunc("/rules/delete", protected(s.handleRuleDelete))

	mux.HandleFunc("/ui/dashboard", protected(s.handleDashboardPartial))
	mux.HandleFunc("/ui/transactions/window", protected(s.handleTransactionWindow))
	mux.HandleFunc("/ui/rules/preview", protected(s.handleRulePreview))
	mux.HandleFunc("/ui/payees/suggestions", protected(s.handlePayeeSuggestions))

	s.tracer = trace.NewMiddleware(opts.Logger, s.ipResolver.ClientIP)
	handler := s.tracer.Middleware(security.Headers(security.DefaultHeadersConfig())(mux))

	s.Server = http.Server{Addr: opts.Addr, Handler: handler}
	return s
}

// Shutdown stops the server plus the cache and rate-limiter goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		metrics := s.tracer.GetMetrics()
		s.logger.Info("server shutting down",
			"requests_served", metrics.TotalRequests,
			"login_limiter_clients", s.limiter.ActiveClients(),
			"write_limiter_clients", s.mutLimiter.ActiveClients())

		s.cacheMgr.Stop()
		s.limiter.Stop()
		s.mutLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// sessionContext carries the resolved session and its token-scoped backend
// through a handler.
type sessionContext struct {
	session session.Session
	backend backend.Backend
}

type sessionHandler func(http.ResponseWriter, *http.Request, *sessionContext)

// withSession resolves the session cookie into a token-scoped backend.
// Missing, expired or stale sessions land on the login page.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			s.redirectLogin(w, r)
			return
		}

		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
			}
			s.clearSession(w, r)
			s.redirectLogin(w, r)
			return
		}

		// A token past its exp claim will only bounce off the backend.
		if session.TokenExpired(sess.Token, time.Now()) {
			_ = s.sessions.Delete(r.Context(), sess.ID)
			s.clearSession(w, r)
			s.redirectLogin(w, r)
			return
		}

		next(w, r, &sessionContext{
			session: sess,
			backend: s.connector.WithToken(sess.Token),
		})
	}
}

// limitWrites applies the mutation rate limit to non-GET requests.
func (s *Server) limitWrites(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if !s.mutLimiter.Allow(s.ipResolver.ClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next(w, r)
	}
}

// redirectLogin routes the client to the login page, via HX-Redirect for
// htmx requests so the whole page navigates rather than a fragment.
func (s *Server) redirectLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleBackendError maps a failed backend call to a response: a 401 kills
// the session and redirects to login, anything else renders an error banner
// with the decoded detail message.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, sc *sessionContext, err error) {
	reqLogger := log.FromContext(r.Context())

	if errors.Is(err, api.ErrUnauthorized) {
		reqLogger.WarnContext(r.Context(), "backend rejected token", log.FieldSessionID, sc.session.ID)
		_ = s.sessions.Delete(r.Context(), sc.session.ID)
		s.clearSession(w, r)
		s.redirectLogin(w, r)
		return
	}

	reqLogger.ErrorContext(r.Context(), "backend call failed", "error", err, "path", r.URL.Path)

	resp := BadGatewayError(err.Error())
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		resp = ErrorResponse(apiErr.StatusCode, err.Error())
	}
	// The banner carries the request ID so a user report can be matched to
	// the logged failure.
	resp.Header("X-Request-Id", trace.RequestID(r.Context())).Write(w)
}

// render executes a template, logging failures. Template errors after the
// first byte cannot be recovered into a clean error page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "templates not loaded", "template", name)
		InternalServerError("page templates are not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed", "error", err, "template", name)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports readiness; the session store is the only local
// dependency worth probing.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.sessions != nil {
		if _, err := s.sessions.PruneExpired(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "readiness probe failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
