// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Catalog() *catalog.Catalog
	Pairs() *quadrant.Table

	// Compose and Profile work on envelopes supplied by the caller.
	Compose(ctx context.Context, req service.ViewRequest, src service.Sources) (*service.View, error)
	Profile(ctx context.Context, req service.ProfileRequest, src service.Sources) (*service.ProfileView, error)

	// BuildView and FetchProfile load their categories upstream first.
	BuildView(ctx context.Context, req service.ViewRequest) (*service.View, error)
	FetchProfile(ctx context.Context, req service.ProfileRequest) (*service.ProfileView, error)
}

const defaultMaxBodyBytes int64 = 8 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxBodyBytes limits request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps    Dependencies
	log     logger.Logger
	maxBody int64

	healthHandler  *HealthHandler
	catalogHandler *CatalogHandler
	viewsHandler   *ViewsHandler
	profileHandler *ProfilesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	if deps == nil {
		panic("api: nil dependencies")
	}
	s := &Server{deps: deps, log: logger.Nop(), maxBody: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(deps)
	s.catalogHandler = NewCatalogHandler(deps)
	s.viewsHandler = NewViewsHandler(deps, s.log, s.maxBody)
	s.profileHandler = NewProfilesHandler(deps, s.log, s.maxBody)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /v1/catalog", "catalog", s.catalogHandler.HandleCatalog)
	route("GET /v1/pairs", "pairs", s.catalogHandler.HandlePairs)
	route("GET /v1/views/{pair}", "views_fetch", s.viewsHandler.HandleGetView)
	route("POST /v1/views", "views_compose", s.viewsHandler.HandlePostView)
	route("GET /v1/profiles/{source}/{id}", "profiles_fetch", s.profileHandler.HandleGetProfile)
	route("POST /v1/profiles", "profiles_compose", s.profileHandler.HandlePostProfile)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(HeaderRequestID)})
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, catalog.ErrUnknownMetric):
		return http.StatusNotFound, "unknown_metric"
	case errors.Is(err, quadrant.ErrUnknownPair):
		return http.StatusNotFound, "unknown_pair"
	case errors.Is(err, service.ErrEntityNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNoFetcher):
		return http.StatusServiceUnavailable, "upstream_disabled"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal"
}

// fail writes err with its mapped status. Server errors are logged with the
// request id; client errors are not.
func fail(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("request_id", RequestIDFromContext(ctx)),
			logger.String("code", code),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// decodeBody reads a JSON body of at most limit bytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
