package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/types"
)

// CatalogHandler serves the metric catalog and the quadrant pair table.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type catalogResponse struct {
	Metrics []catalog.Definition `json:"metrics"`
}

// HandleCatalog handles GET /v1/catalog?family=<source>.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	family := strings.TrimSpace(r.URL.Query().Get("family"))
	if family == "" {
		writeJSON(w, http.StatusOK, catalogResponse{Metrics: h.deps.Catalog().All()})
		return
	}
	st, ok := types.ParseSourceType(family)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: unknown family %q", ErrBadRequest, family))
		return
	}
	defs := h.deps.Catalog().ByFamily(st)
	if defs == nil {
		defs = []catalog.Definition{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{Metrics: defs})
}

type pairsResponse struct {
	Pairs []quadrant.Pair `json:"pairs"`
}

// HandlePairs handles GET /v1/pairs.
func (h *CatalogHandler) HandlePairs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pairsResponse{Pairs: h.deps.Pairs().All()})
}
