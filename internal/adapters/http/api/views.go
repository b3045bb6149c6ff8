package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/logger"
)

// Query parameters of GET /v1/views/{pair}.
const (
	queryParamSource     = "source"
	queryParamSortBy     = "sortBy"
	queryParamSortOrder  = "sortOrder"
	queryParamMinMinutes = "minSure"
	queryParamHighlight  = "highlight"
	queryParamGroupBy    = "groupBy"
	queryParamMatch      = "match"
	queryParamMatchField = "matchField"
)

// ViewsHandler serves quadrant chart views.
type ViewsHandler struct {
	deps    Dependencies
	log     logger.Logger
	maxBody int64
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies, log logger.Logger, maxBody int64) *ViewsHandler {
	return &ViewsHandler{deps: deps, log: log, maxBody: maxBody}
}

// HandleGetView handles GET /v1/views/{pair}; categories are fetched upstream.
func (h *ViewsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	req, err := viewRequestFromQuery(r)
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	v, err := h.deps.BuildView(r.Context(), req)
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// composeRequest is the body of POST /v1/views. Envelopes are ordered; the
// first one is the primary category.
type composeRequest struct {
	service.ViewRequest
	Envelopes []service.CategoryEnvelope `json:"envelopes"`
}

// HandlePostView handles POST /v1/views with caller supplied envelopes.
func (h *ViewsHandler) HandlePostView(w http.ResponseWriter, r *http.Request) {
	var body composeRequest
	if err := decodeBody(w, r, h.maxBody, &body); err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	src, err := service.SourcesFromEnvelopes(body.Envelopes)
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	v, err := h.deps.Compose(r.Context(), body.ViewRequest, src)
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func viewRequestFromQuery(r *http.Request) (service.ViewRequest, error) {
	q := r.URL.Query()
	req := service.ViewRequest{
		PairID:            r.PathValue("pair"),
		Source:            types.SourceType(strings.TrimSpace(q.Get(queryParamSource))),
		SortBy:            strings.TrimSpace(q.Get(queryParamSortBy)),
		HighlightEntityID: strings.TrimSpace(q.Get(queryParamHighlight)),
		GroupBy:           strings.TrimSpace(q.Get(queryParamGroupBy)),
		Match: service.Match{
			Strategy: strings.TrimSpace(q.Get(queryParamMatch)),
			Field:    strings.TrimSpace(q.Get(queryParamMatchField)),
		},
	}
	if o := q.Get(queryParamSortOrder); o != "" {
		req.SortOrder = types.ParseSortOrder(o)
	}
	if raw := strings.TrimSpace(q.Get(queryParamMinMinutes)); raw != "" {
		m, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(m) || math.IsInf(m, 0) {
			return req, fmt.Errorf("%w: %s must be a finite number", ErrBadRequest, queryParamMinMinutes)
		}
		req.MinMinutes = &m
	}
	return req, nil
}
