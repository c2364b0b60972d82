package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/locations"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/render"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := initService()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      newRouter(svc, cfg.Query.RadiusMiles),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  90 * time.Second,
		}

		go gracefulShutdown(ctx, srv, 15*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// gracefulShutdown waits for ctx to be canceled, then drains in-flight
// requests. The shutdown gets its own timeout context: the trigger context
// is already done, and passing it to Shutdown would skip the drain.
func gracefulShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

// newRouter builds the API routes: health, the proximity query endpoint, and
// Prometheus metrics.
func newRouter(svc *query.Service, defaultRadius float64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/v1/near", handleNear(svc, defaultRadius))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleNear answers GET /v1/near?lat=..&lon=..[&radius=..&types=..&name=..]
// with a single location report.
func handleNear(svc *query.Service, defaultRadius float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
		if latErr != nil || lonErr != nil {
			writeAPIJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon are required numeric parameters"})
			return
		}
		if !geospatial.ValidCoordinates(lat, lon) {
			writeAPIJSON(w, http.StatusBadRequest, map[string]string{"error": "coordinates out of range"})
			return
		}

		radius := defaultRadius
		if raw := q.Get("radius"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				writeAPIJSON(w, http.StatusBadRequest, map[string]string{"error": "radius must be a non-negative number"})
				return
			}
			radius = parsed
		}

		var types []string
		if raw := q.Get("types"); raw != "" {
			types = strings.Split(raw, ",")
		}
		kinds, err := parseKinds(types)
		if err != nil {
			writeAPIJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		name := q.Get("name")
		if name == "" {
			name = "Query Location"
		}

		loc := locations.Location{Name: name, Latitude: lat, Longitude: lon}
		report := svc.Near(r.Context(), loc, radius, kinds)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := render.JSON(w, []*query.Report{report}); err != nil {
			zap.L().Error("write query response", zap.Error(err))
		}
	}
}

func writeAPIJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
