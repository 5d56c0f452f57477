package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trolleyman/hagias-monitor-service/internal/layouts"
	"github.com/trolleyman/hagias-monitor-service/internal/toast"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Layouts() []types.Layout
	Apply(ctx context.Context, id string) (types.Layout, error)
	Ready() bool
}

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts returns a context that is canceled when either a or b is done.
// The returned cancel func must be called to release the goroutine when handler ends.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}

// NewMux builds the router: dashboard, layout API, live toast channel,
// health and metrics. hub may be nil, which disables the live channel
// (toasts then degrade to blocking alerts on the client).
func NewMux(svc Service, hub *Hub) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST"},
		}))
	}
	r.Use(MetricsMiddleware)

	r.Get("/", handleIndex(svc))
	r.Get("/api/layouts", handleListLayouts(svc))
	r.Post("/api/apply/{id}", handleApply(svc, hub))
	if hub != nil {
		r.Get("/live", hub.ServeHTTP)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// handleListLayouts returns the dashboard-visible layouts.
//
// @Summary  List visible layouts
// @Produce  json
// @Success  200 {object} types.LayoutsResponse
// @Router   /api/layouts [get]
func handleListLayouts(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.LayoutsResponse{Layouts: svc.Layouts()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// handleApply applies the layout with the given id. Responses are plain
// text: the body doubles as the failure detail inside toast messages.
//
// @Summary  Apply a monitor layout
// @Produce  plain
// @Param    id path string true "Layout ID"
// @Success  202 {string} string "Configuration applied"
// @Failure  404 {string} string "Layout not found"
// @Failure  500 {string} string "Apply failed"
// @Failure  503 {string} string "No applier configured"
// @Router   /api/apply/{id} [post]
func handleApply(svc Service, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		start := time.Now()

		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		l, err := svc.Apply(ctx, id)
		if err == nil {
			countApply("success")
			hub.Broadcast("Configuration applied successfully!", toast.CategorySuccess)
			writeText(w, http.StatusAccepted,
				fmt.Sprintf("Configuration %s %q applied successfully", l.ID, l.Name))
			logApply(r, id, http.StatusAccepted, start, nil)
			return
		}

		status := http.StatusInternalServerError
		detail := fmt.Sprintf("Failed to apply layout %s %q: %v", l.ID, l.Name, err)
		switch {
		case layouts.IsNotFound(err):
			status = http.StatusNotFound
			detail = fmt.Sprintf("Layout %s not found", id)
			countApply("not_found")
		case layouts.IsApplierUnavailable(err):
			status = http.StatusServiceUnavailable
			detail = err.Error()
			countApply("unavailable")
		default:
			if he, ok := err.(HTTPError); ok {
				status = he.StatusCode()
			}
			countApply("error")
		}
		hub.Broadcast("Failed to apply configuration: "+detail, toast.CategoryError)
		writeText(w, status, detail)
		logApply(r, id, status, start, err)
	}
}
