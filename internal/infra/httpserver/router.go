package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalytics "github.com/Hoblayerta/Loudao.aleph/internal/application/analytics"
	appreports "github.com/Hoblayerta/Loudao.aleph/internal/application/reports"
	appsupport "github.com/Hoblayerta/Loudao.aleph/internal/application/support"
	"github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
	"github.com/Hoblayerta/Loudao.aleph/internal/middleware"
)

const maxBodyBytes = 64 << 10

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Reports   *appreports.Service
	Analytics *appanalytics.Service
	Catalog   *appsupport.Catalog
	Ledger    ledger.Mirror
	Metrics   *middleware.Metrics
	Limiter   *middleware.RateLimiter
	Log       *zap.Logger

	CORSOrigins  []string
	OperatorKeys map[string]string
	Health       middleware.Health
}

type Router struct {
	reports   *appreports.Service
	analytics *appanalytics.Service
	catalog   *appsupport.Catalog
	ledger    ledger.Mirror
	metrics   *middleware.Metrics
	log       *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		reports:   d.Reports,
		analytics: d.Analytics,
		catalog:   d.Catalog,
		ledger:    d.Ledger,
		metrics:   d.Metrics,
		log:       d.Log,
	}
	if r.metrics == nil {
		r.metrics = middleware.NewMetrics()
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(middleware.Logging(r.log))
	mux.Use(chimw.Recoverer)
	mux.Use(r.metrics.Middleware)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	mux.Get("/health", d.Health.Handler)
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/readyz", d.Health.Readiness)
	mux.With(middleware.OperatorKeyAuth(d.OperatorKeys)).Get("/metrics", r.handleMetrics)

	mux.Route("/api", func(rt chi.Router) {
		if d.Limiter != nil {
			rt.With(middleware.RateLimit(d.Limiter)).Post("/reports", r.wrap("Failed to create report", r.handleSubmit))
		} else {
			rt.Post("/reports", r.wrap("Failed to create report", r.handleSubmit))
		}
		rt.Get("/reports", r.wrap("Failed to fetch reports", r.handleList))
		rt.Get("/reports/{id}", r.wrap("Failed to fetch report", r.handleGet))
		rt.Get("/reports/aggressor/{name}/count", r.wrap("Failed to count reports", r.handleAggressorCount))
		rt.Get("/support-organizations", r.wrap("Failed to fetch support organizations", r.handleSupportOrgs))
		rt.Get("/support-organizations/grouped", r.wrap("Failed to fetch support organizations", r.handleSupportGrouped))
		rt.Get("/analytics", r.wrap("Failed to fetch analytics", r.handleAnalytics))
		rt.Get("/ledger/stats", r.wrap("Failed to fetch ledger stats", r.handleLedgerStats))
	})

	return mux
}

// GET /metrics
func (r *Router) handleMetrics(w http.ResponseWriter, req *http.Request) {
	if op := middleware.OperatorFromContext(req.Context()); op != "" {
		r.log.Debug("metrics read", zap.String("operator", op))
	}
	r.metrics.Handler(w, req)
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks client errors that are not field validation failures.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type fieldErrorsBody struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

type messageBody struct {
	Message string `json:"message"`
}

// wrap maps error kinds to status codes. failMsg is what clients see for
// unexpected failures; the cause only goes to the log.
func (r *Router) wrap(failMsg string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var verr *domain.ValidationError
		var uerr *domain.UpstreamError
		var berr badRequest
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody{Message: "Validation error", Errors: verr.Fields})
		case errors.As(err, &berr):
			writeJSON(w, http.StatusBadRequest, messageBody{Message: berr.msg})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, messageBody{Message: "Report not found"})
		case errors.As(err, &uerr):
			r.metrics.IncLedgerFailures()
			r.log.Warn("ledger mirror failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, messageBody{Message: uerr.Err.Error()})
		case errors.Is(err, ledger.ErrUnsupported):
			writeJSON(w, http.StatusNotImplemented, messageBody{Message: err.Error()})
		default:
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, messageBody{Message: failMsg})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
