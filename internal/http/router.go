package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/zerobet/api/internal/repository"
	"github.com/zerobet/api/internal/service/account"
	"github.com/zerobet/api/internal/service/odds"
)

const healthCheckTimeout = 2 * time.Second

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *chi.Mux
	logger   *slog.Logger
	account  account.Service
	odds     odds.Service
	verifier TokenVerifier
	dbHealth func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, accountSvc account.Service, oddsSvc odds.Service, verifier TokenVerifier, corsOrigin string, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      chi.NewRouter(),
		logger:   logger,
		account:  accountSvc,
		odds:     oddsSvc,
		verifier: verifier,
		dbHealth: dbHealth,
	}
	r.register(corsOrigin)
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register(corsOrigin string) {
	r.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(corsOrigin),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.mux.Post("/register", r.handleRegister)
	r.mux.Post("/login", r.handleLogin)
	r.mux.Get("/api/sports", r.handleSports)
	r.mux.Get("/api/odds/{sport}", r.handleOdds)
	r.mux.Get("/api/balance", r.requireAuth(r.handleBalance))
	r.mux.Post("/api/watch-ad", r.requireAuth(r.handleWatchAd))
	r.mux.Get("/healthz", r.handleHealthz)
}

func splitOrigins(corsOrigin string) []string {
	var origins []string
	for _, part := range strings.Split(corsOrigin, ",") {
		if origin := strings.TrimRight(strings.TrimSpace(part), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := r.account.Register(req.Context(), payload.Email, payload.Password); err != nil {
		if errors.Is(err, account.ErrMissingCredentials) {
			writeError(w, http.StatusBadRequest, "email and password required")
			return
		}
		// Duplicate emails keep the original 500 contract, see DESIGN.md.
		r.logger.Error("registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, balance, err := r.account.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		r.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "balance": balance})
}

func (r *Router) handleSports(w http.ResponseWriter, req *http.Request) {
	payload, err := r.odds.ListSports(req.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, http.StatusOK, payload)
}

func (r *Router) handleOdds(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	params := odds.Params{
		Regions:    query.Get("regions"),
		Markets:    query.Get("markets"),
		OddsFormat: query.Get("oddsFormat"),
	}
	payload, err := r.odds.ListOdds(req.Context(), chi.URLParam(req, "sport"), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, http.StatusOK, payload)
}

func (r *Router) handleBalance(w http.ResponseWriter, req *http.Request) {
	userID, ok := userIDFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	balance, err := r.account.Balance(req.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		r.logger.Error("balance lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "balance lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (r *Router) handleWatchAd(w http.ResponseWriter, req *http.Request) {
	userID, ok := userIDFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload struct {
		AdType string `json:"adType"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	message, balance, err := r.account.CreditForAd(req.Context(), userID, payload.AdType)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidAdType):
			writeError(w, http.StatusBadRequest, "Invalid ad type")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusUnauthorized, "Invalid token")
		default:
			r.logger.Error("ad credit failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to add funds")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message, "balance": balance})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
