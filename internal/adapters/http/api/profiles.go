package api

import (
	"net/http"
	"strings"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/logger"
)

// ProfilesHandler serves radar chart profiles.
type ProfilesHandler struct {
	deps    Dependencies
	log     logger.Logger
	maxBody int64
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps Dependencies, log logger.Logger, maxBody int64) *ProfilesHandler {
	return &ProfilesHandler{deps: deps, log: log, maxBody: maxBody}
}

// HandleGetProfile handles GET /v1/profiles/{source}/{id}?metrics=a,b.
func (h *ProfilesHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	req := service.ProfileRequest{
		Source:   types.SourceType(r.PathValue("source")),
		EntityID: r.PathValue("id"),
		Metrics:  splitList(r.URL.Query().Get("metrics")),
		Match: service.Match{
			Strategy: strings.TrimSpace(r.URL.Query().Get(queryParamMatch)),
			Field:    strings.TrimSpace(r.URL.Query().Get(queryParamMatchField)),
		},
	}
	p, err := h.deps.FetchProfile(r.Context(), req)
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type profileRequest struct {
	service.ProfileRequest
	Envelopes []service.CategoryEnvelope `json:"envelopes,omitempty"`
}

// HandlePostProfile handles POST /v1/profiles. Without envelopes the
// categories are fetched upstream.
func (h *ProfilesHandler) HandlePostProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := decodeBody(w, r, h.maxBody, &body); err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}

	var (
		p   *service.ProfileView
		err error
	)
	if len(body.Envelopes) == 0 {
		p, err = h.deps.FetchProfile(r.Context(), body.ProfileRequest)
	} else {
		var src service.Sources
		if src, err = service.SourcesFromEnvelopes(body.Envelopes); err == nil {
			p, err = h.deps.Profile(r.Context(), body.ProfileRequest, src)
		}
	}
	if err != nil {
		fail(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
