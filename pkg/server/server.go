package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi"

	"github.com/yurifrl/cwreports/pkg/config"
	"github.com/yurifrl/cwreports/pkg/csv"
	"github.com/yurifrl/cwreports/pkg/deeplink"
	"github.com/yurifrl/cwreports/pkg/models"
	"github.com/yurifrl/cwreports/pkg/report"
	"github.com/yurifrl/cwreports/pkg/ynab"
)

var errTokenRequired = errors.New("token required")

// Server exposes budget reports and the deep-link decoder as a JSON API.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	router    chi.Router
	providers ynab.Factory
}

// New creates a new HTTP server. providers defaults to ynab.NewProvider.
func New(cfg *config.Config, logger *log.Logger, providers ynab.Factory) *Server {
	if providers == nil {
		providers = ynab.NewProvider
	}
	s := &Server{
		config:    cfg,
		logger:    logger,
		router:    chi.NewRouter(),
		providers: providers,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.withLogging)

	s.router.Get("/api/deeplink", s.handleDeeplink)
	s.router.Route("/api/budgets", func(r chi.Router) {
		r.Get("/", s.handleBudgets)
		r.Get("/{budgetID}/accounts", s.handleAccounts)
		r.Get("/{budgetID}/accounts.csv", s.handleAccountsCSV)
	})
}

type budgetResponse struct {
	*models.BudgetSummary
	Link string `json:"link"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	provider, err := s.provider(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	budgets, err := provider.Budgets()
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch budgets", err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetResponse{BudgetSummary: b, Link: deeplink.BudgetLink(b.ID)})
	}
	s.logger.Info("budgets response", "budgets_count", len(out))

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"budgets": out,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	budgetID, accounts, ok := s.fetchAccounts(w, r)
	if !ok {
		return
	}
	s.logger.Info("accounts response", "budget_id", budgetID, "accounts_count", len(accounts))

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"budget":   budgetID,
		"accounts": accounts,
		"total":    models.Sum(balances(accounts)...).StringFixed(2),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleAccountsCSV(w http.ResponseWriter, r *http.Request) {
	budgetID, accounts, ok := s.fetchAccounts(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s-accounts.csv\"", budgetID))
	if _, err := w.Write(csv.Create(models.AccountCSVHeader, accounts, nil)); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

// fetchAccounts loads the filtered accounts for the budget in the path. It
// writes the error response itself and reports ok=false on failure.
func (s *Server) fetchAccounts(w http.ResponseWriter, r *http.Request) (string, []*models.Account, bool) {
	budgetID := chi.URLParam(r, "budgetID")
	if err := deeplink.ValidateBudgetID(budgetID); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid budget_id", err)
		return "", nil, false
	}

	provider, err := s.provider(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return "", nil, false
	}

	accounts, err := provider.Accounts(budgetID)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch accounts", err)
		return "", nil, false
	}

	q := r.URL.Query()
	closed, _ := strconv.ParseBool(q.Get("closed"))
	onBudget, _ := strconv.ParseBool(q.Get("on_budget"))
	filter := report.AccountFilter{IncludeClosed: closed, OnBudgetOnly: onBudget, Type: q.Get("type")}
	return budgetID, filter.Apply(accounts), true
}

type routeResponse struct {
	Name        string               `json:"name"`
	Destination deeplink.Destination `json:"destination"`
}

func (s *Server) handleDeeplink(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		s.respondError(w, r, http.StatusBadRequest, "url required", nil)
		return
	}

	link, err := deeplink.Parse(raw)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "malformed url", err)
		return
	}

	// absent query/fragment stay nil and encode as null
	query, _ := link.QueryItems()
	fragment, _ := link.FragmentItems()

	resp := map[string]any{
		"status":   "success",
		"url":      link.String(),
		"deeplink": link.IsDeeplink(),
		"query":    query,
		"fragment": fragment,
	}
	if dest, err := deeplink.Route(link); err != nil {
		resp["route_error"] = err.Error()
	} else {
		resp["route"] = routeResponse{Name: dest.Name(), Destination: dest}
	}

	if err := s.writeJSON(w, http.StatusOK, resp); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// provider picks the token from ?token=, the Authorization header, then config.
func (s *Server) provider(r *http.Request) (ynab.Provider, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r.Header.Get("Authorization"))
	}
	if token == "" && s.config != nil {
		token = s.config.AccessToken
	}
	if token == "" {
		return nil, errTokenRequired
	}
	return s.providers(token), nil
}

// bearerToken returns the credentials of a Bearer authorization header. Other
// schemes yield "".
func bearerToken(header string) string {
	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credentials)
}

func balances(accounts []*models.Account) []models.Milliunits {
	out := make([]models.Milliunits, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Balance)
	}
	return out
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging logs each request and recovers panics.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
