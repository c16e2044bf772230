package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sync-status-service/internal/logger"
	"sync-status-service/internal/status"
)

type Handler struct {
	aggregator *status.Aggregator
}

func NewHandler(aggregator *status.Aggregator) *Handler {
	return &Handler{
		aggregator: aggregator,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware) // Placeholder for auth

		r.Get("/sync-status", h.ListSyncStatuses)
		r.Get("/sync-status/{userID}", h.GetSyncStatus)
	})

	return r
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := h.aggregator.Evaluate(r.Context(), userID)
	if err != nil {
		logger.Log.Error("Failed to evaluate sync status", zap.String("user", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to evaluate sync status")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "user has never synced")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ListSyncStatuses(w http.ResponseWriter, r *http.Request) {
	usersParam := r.URL.Query().Get("users")
	if usersParam == "" {
		writeError(w, http.StatusBadRequest, "users query parameter is required")
		return
	}
	userIDs := strings.Split(usersParam, ",")

	results, err := h.aggregator.EvaluateMany(r.Context(), userIDs)
	if err != nil {
		logger.Log.Error("Failed to evaluate sync statuses", zap.Int("users", len(userIDs)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to evaluate sync statuses")
		return
	}
	if results == nil {
		results = []status.Result{}
	}

	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Middleware placeholders
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// TODO: Implement actual token check
		next.ServeHTTP(w, r)
	})
}
