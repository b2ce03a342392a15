package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route defines the parameters of an api endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Controller binds http requests to the Service and writes the service
// results to the http response.
type Controller struct {
	service *Service
	logger  *slog.Logger
}

// NewController creates a controller for service s. Failed requests are
// logged with logger.
func NewController(s *Service, logger *slog.Logger) *Controller {
	return &Controller{service: s, logger: logger}
}

// Routes returns all the api routes of the controller.
func (c *Controller) Routes() []Route {
	return []Route{
		{"ComputeRoute", http.MethodPost, "/routes", c.ComputeRoute},
		{"Allocate", http.MethodPost, "/allocations", c.Allocate},
		{"Reconstruct", http.MethodPost, "/reconstructions", c.Reconstruct},
	}
}

// NewRouter creates a mux router serving the routes of c along with the
// Prometheus metrics on /metrics.
func NewRouter(c *Controller) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	for _, route := range c.Routes() {
		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(instrument(route.Name, c.logger, route.HandlerFunc))
	}
	router.Methods(http.MethodGet).Path("/metrics").Name("Metrics").Handler(promhttp.Handler())
	return router
}

// ComputeRoute - Compute the best route between two routers
func (c *Controller) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	req := RouteRequest{}
	if !c.decode(w, r, &req) {
		return
	}
	if req.Source == "" || req.Destination == "" {
		c.writeError(w, r, http.StatusBadRequest, errors.New("source and destination are required"))
		return
	}
	c.handle(w, r, func(ctx context.Context) (ImplResponse, error) {
		return c.service.ComputeRoute(ctx, req)
	})
}

// Allocate - Distribute fragments over data centers
func (c *Controller) Allocate(w http.ResponseWriter, r *http.Request) {
	req := AllocationRequest{}
	if !c.decode(w, r, &req) {
		return
	}
	c.handle(w, r, func(ctx context.Context) (ImplResponse, error) {
		return c.service.Allocate(ctx, req)
	})
}

// Reconstruct - Validate fragments and reassemble their data
func (c *Controller) Reconstruct(w http.ResponseWriter, r *http.Request) {
	req := ReconstructionRequest{}
	if !c.decode(w, r, &req) {
		return
	}
	c.handle(w, r, func(ctx context.Context) (ImplResponse, error) {
		return c.service.Reconstruct(ctx, req)
	})
}

// maxBodyBytes is the largest request body accepted by the controller.
const maxBodyBytes = 1 << 20

// decode reads the JSON body of r into v. It writes an error response and
// returns false if the body is invalid or larger than maxBodyBytes.
func (c *Controller) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	d := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		c.writeError(w, r, code, err)
		return false
	}
	return true
}

func (c *Controller) handle(w http.ResponseWriter, r *http.Request, call func(context.Context) (ImplResponse, error)) {
	result, err := call(r.Context())
	if err != nil {
		if result.Body != nil {
			c.logger.Info("request failed", "path", r.URL.Path, "error", err)
			c.encode(w, r, result.Body, result.Code)
			return
		}
		c.writeError(w, r, result.Code, err)
		return
	}
	c.encode(w, r, result.Body, result.Code)
}

func (c *Controller) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	c.logger.Info("request failed", "path", r.URL.Path, "code", code, "error", err)
	c.encode(w, r, ErrorResult{Error: err.Error()}, code)
}

func (c *Controller) encode(w http.ResponseWriter, r *http.Request, body any, code int) {
	if err := EncodeJSONResponse(body, code, w); err != nil {
		c.logger.Warn("writing response", "path", r.URL.Path, "code", code, "error", err)
	}
}

// EncodeJSONResponse uses the json encoder to write i to w with the given
// status code.
func EncodeJSONResponse(i any, status int, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if i != nil {
		return json.NewEncoder(w).Encode(i)
	}
	return nil
}

// instrument logs every request handled by h and records its duration.
func instrument(name string, logger *slog.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(h, w, r)
		httpRequestDuration.
			WithLabelValues(name, strconv.Itoa(m.Code)).
			Observe(m.Duration.Seconds())
		logger.Debug("request",
			"route", name,
			"method", r.Method,
			"code", m.Code,
			"bytes", m.Written,
			"duration", m.Duration.Round(time.Microsecond),
		)
	})
}
