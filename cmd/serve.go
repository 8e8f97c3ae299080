package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gradlift/scholar-cli/internal/engine"
	"github.com/gradlift/scholar-cli/internal/match"
	"github.com/gradlift/scholar-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(eng),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSecs)*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(eng *engine.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(rateLimit(rate.Limit(cfg.Server.RatePerSec), cfg.Server.RateBurst))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ApplicantID string        `json:"applicant_id"`
			Filters     match.Filters `json:"filters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &model.ValidationError{Reason: "invalid request body"})
			return
		}
		results, err := eng.RecommendationsFor(r.Context(), req.ApplicantID, req.Filters, time.Now().UTC())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	})

	r.Post("/applications", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ApplicantID   string `json:"applicant_id"`
			ScholarshipID string `json:"scholarship_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &model.ValidationError{Reason: "invalid request body"})
			return
		}
		app, err := eng.SubmitApplication(r.Context(), req.ApplicantID, req.ScholarshipID, time.Now().UTC())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, app)
	})

	r.Get("/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		app, err := eng.GetApplication(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	})

	r.Post("/applications/{id}/advance", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Target model.ApplicationStatus `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &model.ValidationError{Reason: "invalid request body"})
			return
		}
		app, err := eng.AdvanceStatus(r.Context(), chi.URLParam(r, "id"), req.Target, time.Now().UTC())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	})

	r.Post("/applications/{id}/documents/{name}", func(w http.ResponseWriter, r *http.Request) {
		app, err := eng.RecordDocumentUpload(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"), time.Now().UTC())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	})

	r.Post("/scholarships/{id}/saved", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExpectedVersion int64 `json:"expected_version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &model.ValidationError{Reason: "invalid request body"})
			return
		}
		state, err := eng.ToggleSaved(r.Context(), chi.URLParam(r, "id"), req.ExpectedVersion)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	return r
}

// rateLimit applies a shared token bucket across all requests.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. State-machine
// errors carry the current state in their message so clients can reconcile
// without re-fetching.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		validation *model.ValidationError
		invalid    *model.InvalidTransitionError
		missing    *model.MissingDocumentsError
		expired    *model.DocumentExpiredError
	)
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case model.IsNotFound(err):
		status = http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &missing), errors.As(err, &expired):
		status = http.StatusConflict
	case model.IsConflict(err):
		status = http.StatusConflict
	default:
		zap.L().Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
